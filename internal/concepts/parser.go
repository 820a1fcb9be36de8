// File: internal/concepts/parser.go
package concepts

import (
	"fmt"
	"strings"

	"notebookexec/internal/argparse"
)

// ConceptParser registers one or more resource arguments on a parser.
// Command level fallthroughs are keyed "<presentation name>.<attribute name>",
// for example "--notebook-runtime-template.region": {"--region"}
type ConceptParser struct {
	specs               []PresentationSpec
	commandFallthroughs map[string][]string
}

type Option func(*PresentationSpec)

func Required(required bool) Option {
	return func(p *PresentationSpec) { p.Required = required }
}

func FlagNameOverrides(overrides map[string]string) Option {
	return func(p *PresentationSpec) { p.FlagNameOverrides = overrides }
}

func NewConceptParser(specs []PresentationSpec, commandFallthroughs map[string][]string) *ConceptParser {
	return &ConceptParser{
		specs:               specs,
		commandFallthroughs: commandFallthroughs,
	}
}

// Builds a parser for a single resource argument
func ForResource(name string, spec *ResourceSpec, groupHelp string, opts ...Option) *ConceptParser {
	pres := PresentationSpec{
		Name:      name,
		Spec:      spec,
		GroupHelp: groupHelp,
	}
	for _, opt := range opts {
		opt(&pres)
	}
	return NewConceptParser([]PresentationSpec{pres}, nil)
}

func (cp *ConceptParser) AddToParser(c argparse.Container) {
	p := c.Parser()
	known := make(map[string]bool, len(cp.specs))
	for _, pres := range cp.specs {
		known[pres.Name] = true
	}
	for key := range cp.commandFallthroughs {
		presName, _, ok := strings.Cut(key, ".")
		if !ok || !known[presName] {
			panic(fmt.Sprintf("concepts: command level fallthrough %q does not name a registered resource", key))
		}
	}

	for _, pres := range cp.specs {
		arg := cp.newResourceArg(pres)
		arg.register(p)
		c.AddMember(arg)
		p.AddConcept(pres.Name, arg)
	}
}

func (cp *ConceptParser) newResourceArg(pres PresentationSpec) *resourceArg {
	if pres.Spec == nil {
		panic(fmt.Sprintf("concepts: presentation %s has no resource spec", pres.Name))
	}
	attrs := pres.Spec.attributes
	arg := &resourceArg{
		pres:         pres,
		flags:        make([]string, len(attrs)),
		fallthroughs: make([][]Fallthrough, len(attrs)),
	}
	for i, attr := range attrs {
		arg.flags[i] = pres.attributeFlag(i)

		key := pres.Name + "." + attr.Name
		for _, flag := range cp.commandFallthroughs[key] {
			arg.fallthroughs[i] = append(arg.fallthroughs[i], ArgFallthrough{Arg: flag})
		}
		arg.fallthroughs[i] = append(arg.fallthroughs[i], attr.Fallthroughs...)
	}
	return arg
}

// Parse resolves the resource registered under name. A nil resource with a
// nil error means an optional resource was not given
func Parse(ns *argparse.Namespace, name string) (*Resource, error) {
	v, err := ns.Concept(name)
	if err != nil {
		return nil, err
	}
	r, ok := v.(*Resource)
	if !ok {
		return nil, fmt.Errorf("concept %s is not a resource", name)
	}
	return r, nil
}
