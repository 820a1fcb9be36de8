// File: internal/argparse/parser.go
package argparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Properties supplies configuration values used as fallthrough defaults
type Properties interface {
	GetValue(key string) (string, bool)
}

// Concept is a composite argument resolved from several flags after parsing
type Concept interface {
	Resolve(ns *Namespace) (any, error)
}

// Parser collects argument declarations for one cobra command and enforces
// the group constraints once cobra has parsed the command line
type Parser struct {
	cmd         *cobra.Command
	props       Properties
	root        *Group
	args        map[string]*Argument
	positionals []*Argument
	concepts    map[string]Concept
	display     DisplayInfo
}

var _ Container = (*Parser)(nil)

func NewParser(cmd *cobra.Command, props Properties) *Parser {
	p := &Parser{
		cmd:      cmd,
		props:    props,
		args:     make(map[string]*Argument),
		concepts: make(map[string]Concept),
	}
	p.root = &Group{GroupOptions: GroupOptions{Required: true}, parser: p}
	cmd.SetHelpFunc(p.renderHelp)
	return p
}

func (p *Parser) Command() *cobra.Command {
	return p.cmd
}

func (p *Parser) Parser() *Parser {
	return p
}

func (p *Parser) AddArgument(arg Argument) *Argument {
	return p.root.AddArgument(arg)
}

func (p *Parser) AddGroup(opts GroupOptions) *Group {
	return p.root.AddGroup(opts)
}

func (p *Parser) AddMember(m Member) {
	p.root.AddMember(m)
}

// Registers the argument with cobra without attaching it to any group.
// Concepts use this for attribute flags that are checked as one member
func (p *Parser) Register(arg Argument) *Argument {
	return p.register(arg)
}

// Registration problems are programming errors, so they panic
func (p *Parser) register(arg Argument) *Argument {
	if err := arg.validate(); err != nil {
		panic(fmt.Sprintf("argparse: %v", err))
	}
	if _, exists := p.args[arg.Name]; exists {
		panic(fmt.Sprintf("argparse: argument %s already registered", arg.Name))
	}

	a := &arg
	if a.IsFlag() {
		p.registerFlag(a)
	} else {
		p.positionals = append(p.positionals, a)
		p.cmd.Args = p.positionalArgsValidator()
	}
	p.args[a.Name] = a
	return a
}

func (p *Parser) registerFlag(a *Argument) {
	flags := p.cmd.Flags()
	name := a.FlagName()
	if flags.Lookup(name) != nil {
		panic(fmt.Sprintf("argparse: flag %s already defined on command %q", a.Name, p.cmd.Name()))
	}

	switch a.Kind {
	case String:
		flags.String(name, a.Default, a.Help)
	case Bool:
		def, err := parseBoolDefault(a.Default)
		if err != nil {
			panic(fmt.Sprintf("argparse: flag %s: %v", a.Name, err))
		}
		flags.Bool(name, def, a.Help)
	case Int:
		def := 0
		if a.Default != "" {
			n, err := strconv.Atoi(a.Default)
			if err != nil {
				panic(fmt.Sprintf("argparse: flag %s: invalid default %q", a.Name, a.Default))
			}
			def = n
		}
		flags.Int(name, def, a.Help)
	case Duration:
		var d time.Duration
		v, err := newDurationValue(a.Default, &d)
		if err != nil {
			panic(fmt.Sprintf("argparse: flag %s: invalid default: %v", a.Name, err))
		}
		flags.Var(v, name, a.Help)
	default:
		panic(fmt.Sprintf("argparse: flag %s has unknown kind %d", a.Name, a.Kind))
	}

	if a.Hidden {
		_ = flags.MarkHidden(name)
	}
}

func parseBoolDefault(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func (p *Parser) positionalArgsValidator() cobra.PositionalArgs {
	required := 0
	for _, a := range p.positionals {
		if a.Required {
			required++
		}
	}
	return cobra.RangeArgs(required, len(p.positionals))
}

// Attaches a concept so command handlers can resolve it from the namespace
func (p *Parser) AddConcept(name string, c Concept) {
	if _, exists := p.concepts[name]; exists {
		panic(fmt.Sprintf("argparse: concept %s already registered", name))
	}
	p.concepts[name] = c
}

func (p *Parser) DisplayInfo() *DisplayInfo {
	return &p.display
}

// Parse binds the positional values and checks every group constraint.
// It must be called first in the command handler, before any action runs
func (p *Parser) Parse(cmd *cobra.Command, args []string) (*Namespace, error) {
	if len(args) > len(p.positionals) {
		return nil, &ArgumentError{
			Kind:    ErrUnexpectedArgument,
			Args:    args[len(p.positionals):],
			Message: fmt.Sprintf("unrecognized arguments: %s", strings.Join(args[len(p.positionals):], " ")),
		}
	}

	ns := newNamespace(p, cmd)
	for i, a := range p.positionals {
		if i < len(args) {
			ns.positionals[a.Name] = args[i]
		}
	}

	if err := p.root.validate(ns); err != nil {
		return nil, err
	}
	return ns, nil
}

// Renders the groups and their cardinality, appended to the command help
func (p *Parser) Outline() string {
	var sb strings.Builder
	for _, m := range p.root.members {
		if g, ok := m.(*Group); ok {
			g.Outline(&sb, "  ")
		}
	}
	return sb.String()
}

func (p *Parser) renderHelp(c *cobra.Command, _ []string) {
	out := c.OutOrStdout()
	desc := strings.TrimSpace(c.Long)
	if desc == "" {
		desc = strings.TrimSpace(c.Short)
	}
	if desc != "" {
		fmt.Fprintln(out, desc)
		fmt.Fprintln(out)
	}
	fmt.Fprint(out, c.UsageString())
	if outline := p.Outline(); outline != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Argument groups:")
		fmt.Fprint(out, outline)
	}
}
