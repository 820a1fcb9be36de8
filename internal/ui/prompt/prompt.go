// File: internal/ui/prompt/prompt.go
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Defines the interface for prompting the user for input
type Prompter interface {
	// Asks the user for confirmation by requiring them to type a specific expected value
	Confirm(message string, expectedValue string) (bool, error)
}

// Provides a standard implementation of the Prompter interface using specified input/output streams
type StandardPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewStandardPrompter(in io.Reader, out io.Writer) *StandardPrompter {
	return &StandardPrompter{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// Returns true only if the user types expectedValue. End of input counts as a refusal
func (p *StandardPrompter) Confirm(message string, expectedValue string) (bool, error) {
	if expectedValue == "" {
		return false, fmt.Errorf("expected confirmation value cannot be empty")
	}

	fmt.Fprintln(p.writer, message)
	fmt.Fprintf(p.writer, "To confirm, please type the execution ID '%s': ", expectedValue)

	input, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("error reading user input: %w", err)
	}
	if errors.Is(err, io.EOF) && input == "" {
		fmt.Fprintln(p.writer)
		return false, nil
	}

	return strings.TrimSpace(input) == expectedValue, nil
}

// AutoApprove always confirms. It backs --quiet
type AutoApprove struct{}

func (AutoApprove) Confirm(string, string) (bool, error) {
	return true, nil
}
