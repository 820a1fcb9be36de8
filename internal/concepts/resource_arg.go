// File: internal/concepts/resource_arg.go
package concepts

import (
	"fmt"
	"strings"

	"notebookexec/internal/argparse"
)

// resourceArg is the group member and concept produced for one presentation spec
type resourceArg struct {
	pres PresentationSpec
	// Flag for each attribute, aligned with ResourceSpec attributes. "" means no flag
	flags        []string
	fallthroughs [][]Fallthrough
}

var (
	_ argparse.Member  = (*resourceArg)(nil)
	_ argparse.Concept = (*resourceArg)(nil)
)

func (r *resourceArg) anchorIndex() int {
	return len(r.flags) - 1
}

func (r *resourceArg) register(p *argparse.Parser) {
	spec := r.pres.Spec
	for i, attr := range spec.attributes {
		flag := r.flags[i]
		if flag == "" {
			continue
		}

		help := attr.help(spec.ResourceName)
		if i == r.anchorIndex() && r.pres.GroupHelp != "" {
			help = r.pres.GroupHelp
		}
		// Positional anchors are enforced by cobra's argument count check
		required := false
		if i == r.anchorIndex() && !isFlagName(flag) {
			required = r.pres.Required
		}
		p.Register(argparse.Argument{
			Name:     flag,
			Help:     help,
			Kind:     argparse.String,
			Required: required,
			Hidden:   r.pres.Hidden,
		})
	}
}

func isFlagName(name string) bool {
	return strings.HasPrefix(name, "--")
}

func (r *resourceArg) DisplayNames() []string {
	name := r.pres.Name
	if !isFlagName(name) {
		name = strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	}
	return []string{name}
}

// Only the anchor can be checked by the parser, and only when nothing else can supply it
func (r *resourceArg) IsRequired() bool {
	return r.pres.Required && len(r.fallthroughs[r.anchorIndex()]) == 0
}

func (r *resourceArg) IsSpecified(ns *argparse.Namespace) bool {
	for _, flag := range r.flags {
		if flag != "" && ns.IsSpecified(flag) {
			return true
		}
	}
	return false
}

func (r *resourceArg) Outline(sb *strings.Builder, indent string) {
	sb.WriteString(indent)
	sb.WriteString(r.DisplayNames()[0])
	if r.pres.Required {
		sb.WriteString(" (required)")
	}
	sb.WriteString("\n")
	for i, flag := range r.flags {
		if flag == "" || i == r.anchorIndex() {
			continue
		}
		sb.WriteString(indent + "  " + flag + "\n")
	}
}

func (r *resourceArg) Resolve(ns *argparse.Namespace) (any, error) {
	res, err := r.resolve(ns)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *resourceArg) resolve(ns *argparse.Namespace) (*Resource, error) {
	spec := r.pres.Spec
	anchor := r.anchorIndex()

	anchorValue, ok := r.attributeValue(ns, anchor)
	if !ok {
		if r.pres.Required {
			return nil, r.missingAttributeError(anchor)
		}
		if set := r.setAttributeFlags(ns); len(set) > 0 {
			return nil, fmt.Errorf("%w: [%s] must be specified when [%s] is set",
				ErrMissingAttribute, r.pres.Name, strings.Join(set, ", "))
		}
		return nil, nil
	}

	if strings.Contains(anchorValue, "/") {
		values, err := spec.ParseRelativeName(anchorValue)
		if err != nil {
			return nil, fmt.Errorf("error parsing [%s]: %w", r.pres.Name, err)
		}
		return spec.newResource(values), nil
	}

	values := map[string]string{spec.params[anchor]: anchorValue}
	for i := 0; i < anchor; i++ {
		v, ok := r.attributeValue(ns, i)
		if !ok {
			return nil, r.missingAttributeError(i)
		}
		if strings.Contains(v, "/") {
			return nil, fmt.Errorf("%w: attribute [%s] value %q must not contain '/'",
				ErrInvalidResourceName, spec.attributes[i].Name, v)
		}
		values[spec.params[i]] = v
	}
	return spec.newResource(values), nil
}

// Looks at the attribute flag first and then at each fallthrough in order
func (r *resourceArg) attributeValue(ns *argparse.Namespace, i int) (string, bool) {
	if flag := r.flags[i]; flag != "" && ns.IsSpecified(flag) {
		if v := ns.String(flag); v != "" {
			return v, true
		}
	}
	for _, f := range r.fallthroughs[i] {
		if v, ok := f.Value(ns); ok {
			return v, true
		}
	}
	return "", false
}

func (r *resourceArg) setAttributeFlags(ns *argparse.Namespace) []string {
	var set []string
	for i, flag := range r.flags {
		if i != r.anchorIndex() && flag != "" && ns.IsSpecified(flag) {
			set = append(set, flag)
		}
	}
	return set
}

func (r *resourceArg) missingAttributeError(i int) error {
	attr := r.pres.Spec.attributes[i]
	var hints []string
	if flag := r.flags[i]; flag != "" {
		if isFlagName(flag) {
			hints = append(hints, fmt.Sprintf("provide the argument [%s] on the command line", flag))
		} else {
			hints = append(hints, fmt.Sprintf("provide the argument [%s] on the command line", r.DisplayNames()[0]))
		}
	}
	for _, f := range r.fallthroughs[i] {
		hints = append(hints, f.Hint())
	}
	if i != r.anchorIndex() {
		hints = append(hints, fmt.Sprintf("provide a fully specified name for [%s]", r.DisplayNames()[0]))
	}

	return &ResolveError{
		Arg:          r.pres.Name,
		ResourceName: r.pres.Spec.ResourceName,
		Attribute:    attr.Name,
		Hints:        hints,
	}
}

// ResolveError explains which attribute could not be found and how to supply it
type ResolveError struct {
	Arg          string
	ResourceName string
	Attribute    string
	Hints        []string
}

func (e *ResolveError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error parsing [%s]: the [%s] resource is not properly specified: failed to find attribute [%s]",
		e.Arg, e.ResourceName, e.Attribute)
	if len(e.Hints) > 0 {
		sb.WriteString(". The attribute can be set in the following ways:")
		for _, h := range e.Hints {
			sb.WriteString("\n- ")
			sb.WriteString(h)
		}
	}
	return sb.String()
}

func (e *ResolveError) Unwrap() error {
	return ErrMissingAttribute
}
