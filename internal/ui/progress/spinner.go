// File: internal/ui/progress/spinner.go
package progress

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

type doneMsg struct {
	err error
}

type model struct {
	spinner     spinner.Model
	message     string
	done        bool
	err         error
	interrupted bool
}

func newModel(message string) model {
	return model{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		message: message,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	switch {
	case m.interrupted:
		return m.message + "...interrupted.\n"
	case m.done && m.err != nil:
		return m.message + "...failed.\n"
	case m.done:
		return m.message + "...done.\n"
	default:
		return m.spinner.View() + " " + m.message + "..."
	}
}

// Runs fn while showing message with a spinner on w. When w is not a
// terminal the message is printed once and fn runs without animation.
// Interrupting the spinner cancels the context passed to fn
func Run(ctx context.Context, w io.Writer, message string, fn func(context.Context) error) error {
	if !isTerminal(w) {
		fmt.Fprintf(w, "%s...\n", message)
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(message), tea.WithOutput(w), tea.WithContext(ctx))

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(doneMsg{err: err})
	}()

	final, runErr := p.Run()
	if m, ok := final.(model); ok && m.interrupted {
		cancel()
		<-result
		return context.Canceled
	}
	if runErr != nil {
		cancel()
	}
	return <-result
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
