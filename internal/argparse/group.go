// File: internal/argparse/group.go
package argparse

import (
	"strings"
)

// Member is anything that can be placed in a group and checked after parsing
type Member interface {
	// Names used when reporting constraint violations (e.g. "--user-email")
	DisplayNames() []string
	IsRequired() bool
	IsSpecified(ns *Namespace) bool
	Outline(sb *strings.Builder, indent string)
}

// Container is implemented by both the Parser and every Group
type Container interface {
	AddArgument(arg Argument) *Argument
	AddGroup(opts GroupOptions) *Group
	AddMember(m Member)
	Parser() *Parser
}

type GroupOptions struct {
	Help     string
	Required bool
	// Mutex groups accept at most one specified member
	Mutex bool
}

type Group struct {
	GroupOptions
	members []Member
	parser  *Parser
}

var _ Container = (*Group)(nil)
var _ Member = (*Group)(nil)

func (g *Group) AddArgument(arg Argument) *Argument {
	a := g.parser.register(arg)
	g.members = append(g.members, a)
	return a
}

func (g *Group) AddGroup(opts GroupOptions) *Group {
	child := &Group{GroupOptions: opts, parser: g.parser}
	g.members = append(g.members, child)
	return child
}

func (g *Group) AddMember(m Member) {
	g.members = append(g.members, m)
}

func (g *Group) Parser() *Parser {
	return g.parser
}

func (g *Group) Members() []Member {
	return g.members
}

func (g *Group) DisplayNames() []string {
	var names []string
	for _, m := range g.members {
		names = append(names, m.DisplayNames()...)
	}
	return names
}

func (g *Group) IsRequired() bool {
	return g.Required
}

// A group counts as specified as soon as any of its members is
func (g *Group) IsSpecified(ns *Namespace) bool {
	for _, m := range g.members {
		if m.IsSpecified(ns) {
			return true
		}
	}
	return false
}

// Checks the group constraints recursively and returns the first violation
func (g *Group) validate(ns *Namespace) error {
	specified := g.specifiedMembers(ns)

	if g.Mutex {
		if len(specified) > 1 {
			return conflictError(specified)
		}
		if len(specified) == 0 {
			if g.Required {
				return exactlyOneError(g.members)
			}
			return nil
		}
		return validateMember(specified[0], ns)
	}

	if !g.Required && len(specified) == 0 {
		return nil
	}

	for _, m := range g.members {
		if m.IsRequired() && !m.IsSpecified(ns) {
			if child, ok := m.(*Group); ok {
				// Let the child report its own, more specific, message
				if err := child.validate(ns); err != nil {
					return err
				}
				continue
			}
			return missingError(m)
		}
		if err := validateMember(m, ns); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) specifiedMembers(ns *Namespace) []Member {
	var specified []Member
	for _, m := range g.members {
		if m.IsSpecified(ns) {
			specified = append(specified, m)
		}
	}
	return specified
}

func validateMember(m Member, ns *Namespace) error {
	if child, ok := m.(*Group); ok {
		return child.validate(ns)
	}
	return nil
}

func (g *Group) Outline(sb *strings.Builder, indent string) {
	sb.WriteString(indent)
	help := strings.TrimSpace(g.Help)
	if help == "" {
		help = "Group"
	}
	sb.WriteString(help)
	switch {
	case g.Mutex && g.Required:
		sb.WriteString(" Exactly one of these must be specified:")
	case g.Mutex:
		sb.WriteString(" At most one of these can be specified:")
	case g.Required:
		sb.WriteString(" (required)")
	}
	sb.WriteString("\n")
	for _, m := range g.members {
		m.Outline(sb, indent+"  ")
	}
}
