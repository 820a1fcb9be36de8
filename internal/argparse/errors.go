// File: internal/argparse/errors.go
package argparse

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrMissingArgument      = errors.New("missing required argument")
	ErrConflictingArguments = errors.New("conflicting arguments")
	ErrUnexpectedArgument   = errors.New("unexpected argument")
	ErrInvalidValue         = errors.New("invalid argument value")
)

// ArgumentError reports a constraint violation detected while parsing
type ArgumentError struct {
	Kind    error
	Args    []string
	Message string
}

func (e *ArgumentError) Error() string {
	if len(e.Args) == 1 {
		return fmt.Sprintf("argument %s: %s", e.Args[0], e.Message)
	}
	return e.Message
}

func (e *ArgumentError) Unwrap() error {
	return e.Kind
}

func missingError(m Member) error {
	names := m.DisplayNames()
	if len(names) == 1 {
		return &ArgumentError{Kind: ErrMissingArgument, Args: names, Message: "Must be specified."}
	}
	return &ArgumentError{
		Kind:    ErrMissingArgument,
		Args:    names,
		Message: fmt.Sprintf("Missing required argument [%s].", strings.Join(names, " ")),
	}
}

func exactlyOneError(members []Member) error {
	names := memberNames(members)
	return &ArgumentError{
		Kind:    ErrMissingArgument,
		Args:    names,
		Message: fmt.Sprintf("Exactly one of (%s) must be specified.", strings.Join(names, " | ")),
	}
}

func conflictError(specified []Member) error {
	names := memberNames(specified)
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &ArgumentError{
		Kind:    ErrConflictingArguments,
		Args:    names,
		Message: fmt.Sprintf("At most one of %s can be specified.", strings.Join(sorted, " | ")),
	}
}

// Names the first display name of each member, so nested groups read as a single choice
func memberNames(members []Member) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		display := m.DisplayNames()
		if len(display) == 0 {
			continue
		}
		if len(display) == 1 {
			names = append(names, display[0])
			continue
		}
		names = append(names, "["+strings.Join(display, " ")+"]")
	}
	return names
}

// Builds the error reported when a flag value fails validation
func InvalidValueError(name, value string, err error) error {
	return &ArgumentError{
		Kind:    ErrInvalidValue,
		Args:    []string{name},
		Message: fmt.Sprintf("invalid value %q: %v", value, err),
	}
}
