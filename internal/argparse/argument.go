// File: internal/argparse/argument.go
package argparse

import (
	"fmt"
	"strings"
)

type Kind int

const (
	String Kind = iota
	Bool
	Duration
	Int
)

// Argument declares a single flag or positional argument.
// A name with a leading "--" is a flag, anything else is positional
type Argument struct {
	Name     string
	Help     string
	Kind     Kind
	Default  string
	Required bool
	Hidden   bool
}

func (a *Argument) IsFlag() bool {
	return strings.HasPrefix(a.Name, "--")
}

// Returns the flag name without the leading dashes, as pflag stores it
func (a *Argument) FlagName() string {
	return strings.TrimPrefix(a.Name, "--")
}

func (a *Argument) validate() error {
	name := a.Name
	if a.IsFlag() {
		name = a.FlagName()
	}
	if name == "" {
		return fmt.Errorf("argument name cannot be empty")
	}
	if strings.ContainsAny(name, " =") {
		return fmt.Errorf("argument name %q contains invalid characters", a.Name)
	}
	if !a.IsFlag() && a.Kind != String {
		return fmt.Errorf("positional argument %q must be a string", a.Name)
	}
	return nil
}

func (a *Argument) DisplayNames() []string {
	return []string{a.displayName()}
}

func (a *Argument) displayName() string {
	if a.IsFlag() {
		return a.Name
	}
	return strings.ToUpper(strings.ReplaceAll(a.Name, "-", "_"))
}

func (a *Argument) IsRequired() bool {
	return a.Required
}

func (a *Argument) IsSpecified(ns *Namespace) bool {
	return ns.IsSpecified(a.Name)
}

func (a *Argument) Outline(sb *strings.Builder, indent string) {
	sb.WriteString(indent)
	sb.WriteString(a.displayName())
	if a.Required {
		sb.WriteString(" (required)")
	}
	sb.WriteString("\n")
}
