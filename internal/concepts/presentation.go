// File: internal/concepts/presentation.go
package concepts

// PresentationSpec binds a ResourceSpec to a concrete flag or positional name
type PresentationSpec struct {
	// "--kms-key" for a flag, "execution" for a positional
	Name      string
	Spec      *ResourceSpec
	GroupHelp string
	Required  bool
	// Maps attribute names to replacement flag names. An empty name hides the
	// attribute flag; the attribute then only resolves through fallthroughs or
	// a fully qualified anchor value
	FlagNameOverrides map[string]string
	Hidden            bool
}

// Returns the flag that sets the attribute at index i, or "" when there is none
func (p PresentationSpec) attributeFlag(i int) string {
	attrs := p.Spec.attributes
	if i == len(attrs)-1 {
		return p.Name
	}
	attr := attrs[i]
	if override, ok := p.FlagNameOverrides[attr.Name]; ok {
		if override == "" {
			return ""
		}
		return "--" + trimDashes(override)
	}
	if attr.Global {
		return ""
	}
	return "--" + attr.Name
}

func trimDashes(s string) string {
	for len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	return s
}
