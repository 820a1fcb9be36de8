// File: internal/concepts/attribute.go
package concepts

import (
	"fmt"
	"strings"

	"notebookexec/internal/argparse"
)

// Fallthrough supplies a value for an attribute the user left unset
type Fallthrough interface {
	Value(ns *argparse.Namespace) (string, bool)
	// Explains to the user how to provide the value
	Hint() string
}

// ArgFallthrough takes the value of another flag when it was given.
// When that flag is a resource argument given as a full name, its
// resolved ID is used
type ArgFallthrough struct {
	Arg string
}

func (f ArgFallthrough) Value(ns *argparse.Namespace) (string, bool) {
	if !ns.IsSpecified(f.Arg) {
		return "", false
	}
	v := ns.String(f.Arg)
	if strings.Contains(v, "/") {
		if c, err := ns.Concept(f.Arg); err == nil {
			if res, ok := c.(*Resource); ok && res != nil {
				return res.Name(), true
			}
		}
	}
	return v, v != ""
}

func (f ArgFallthrough) Hint() string {
	return fmt.Sprintf("provide the argument [%s] on the command line", f.Arg)
}

// PropertyFallthrough takes the value of a configuration property
type PropertyFallthrough struct {
	Key string
}

func (f PropertyFallthrough) Value(ns *argparse.Namespace) (string, bool) {
	return ns.Property(f.Key)
}

func (f PropertyFallthrough) Hint() string {
	return fmt.Sprintf("set the property [%s]", f.Key)
}

// AttributeConfig describes one hierarchical piece of a resource path
type AttributeConfig struct {
	Name string
	// HelpText may reference the resource name as {resource}
	HelpText     string
	Fallthroughs []Fallthrough
	// Global attributes are bound to a flag defined once on the root command,
	// so no attribute flag is generated for them
	Global bool
}

func (a AttributeConfig) help(resourceName string) string {
	text := a.HelpText
	if text == "" {
		text = "ID of the {resource} or fully qualified identifier for the {resource}."
	}
	return strings.ReplaceAll(text, "{resource}", resourceName)
}

// DefaultProjectAttributeConfig is the project attribute shared by every resource.
// It reads the global --project flag and then the core.project property
func DefaultProjectAttributeConfig() AttributeConfig {
	return AttributeConfig{
		Name:     "project",
		HelpText: "Project ID of the Google Cloud project for the {resource}.",
		Fallthroughs: []Fallthrough{
			ArgFallthrough{Arg: "--project"},
			PropertyFallthrough{Key: "core.project"},
		},
		Global: true,
	}
}
