// File: internal/ui/progress/spinner_test.go
package progress

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_NonTerminal(t *testing.T) {
	var out bytes.Buffer
	called := false

	err := Run(context.Background(), &out, "Waiting for operation", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "Waiting for operation...\n", out.String())
}

func TestRun_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), &bytes.Buffer{}, "Deleting", func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestModel_View(t *testing.T) {
	m := newModel("Creating")

	updated, cmd := m.Update(doneMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Creating...done.\n", updated.View())

	updated, _ = m.Update(doneMsg{err: errors.New("x")})
	assert.Equal(t, "Creating...failed.\n", updated.View())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, "Creating...interrupted.\n", updated.View())

	assert.Contains(t, m.View(), "Creating...")
}
