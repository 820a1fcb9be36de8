// File: internal/argparse/namespace.go
package argparse

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Namespace is the parsed view of a single command invocation.
// Flags are addressed with their dashes ("--region"), positionals by name
type Namespace struct {
	parser      *Parser
	flags       *pflag.FlagSet
	positionals map[string]string
	resolved    map[string]any
}

func newNamespace(p *Parser, cmd *cobra.Command) *Namespace {
	return &Namespace{
		parser:      p,
		flags:       cmd.Flags(),
		positionals: make(map[string]string),
		resolved:    make(map[string]any),
	}
}

func (ns *Namespace) lookupFlag(name string) *pflag.Flag {
	if len(name) < 3 || name[:2] != "--" {
		return nil
	}
	return ns.flags.Lookup(name[2:])
}

// Reports whether the user supplied the argument on the command line
func (ns *Namespace) IsSpecified(name string) bool {
	if f := ns.lookupFlag(name); f != nil {
		return f.Changed
	}
	_, ok := ns.positionals[name]
	return ok
}

// Returns the string value of a flag or positional, including flag defaults
func (ns *Namespace) String(name string) string {
	if f := ns.lookupFlag(name); f != nil {
		return f.Value.String()
	}
	return ns.positionals[name]
}

func (ns *Namespace) Bool(name string) bool {
	f := ns.lookupFlag(name)
	if f == nil {
		return false
	}
	return f.Value.String() == "true"
}

func (ns *Namespace) Int(name string) int {
	f := ns.lookupFlag(name)
	if f == nil {
		return 0
	}
	n, err := ns.flags.GetInt(f.Name)
	if err != nil {
		return 0
	}
	return n
}

func (ns *Namespace) Duration(name string) time.Duration {
	f := ns.lookupFlag(name)
	if f == nil {
		return 0
	}
	if v, ok := f.Value.(*durationValue); ok {
		return *v.d
	}
	return 0
}

func (ns *Namespace) Property(key string) (string, bool) {
	if ns.parser.props == nil {
		return "", false
	}
	v, ok := ns.parser.props.GetValue(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Resolves a registered concept. Results are cached for the invocation
func (ns *Namespace) Concept(name string) (any, error) {
	if v, ok := ns.resolved[name]; ok {
		return v, nil
	}
	c, ok := ns.parser.concepts[name]
	if !ok {
		return nil, fmt.Errorf("no concept registered for %s", name)
	}
	v, err := c.Resolve(ns)
	if err != nil {
		return nil, err
	}
	ns.resolved[name] = v
	return v, nil
}

func (ns *Namespace) DisplayInfo() *DisplayInfo {
	return &ns.parser.display
}
