package input

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryInput(t *testing.T) {
	q := NewQueryInput(nil)

	require.NotNil(t, q)
	assert.Empty(t, q.Value())
	assert.Equal(t, 50, q.Width())
	assert.NotNil(t, q.Init())
}

func TestQueryInput_Typing(t *testing.T) {
	q := NewQueryInput(nil)

	for _, r := range "go test" {
		q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "go test", q.Value())
}

func TestQueryInput_SetValue(t *testing.T) {
	q := NewQueryInput(nil)

	q.SetValue("cats")
	q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'!'}})

	assert.Equal(t, "cats!", q.Value(), "typing continues at the end")
}

func TestQueryInput_CharLimit(t *testing.T) {
	q := NewQueryInput(nil)

	q.SetValue(strings.Repeat("x", CharLimit+10))

	assert.Len(t, q.Value(), CharLimit)
}

func TestQueryInput_SetWidth(t *testing.T) {
	q := NewQueryInput(nil)

	q.SetWidth(100)
	assert.Equal(t, 100, q.Width())
	assert.Equal(t, 86, q.textinput.Width)

	q.SetWidth(10)
	assert.Equal(t, 20, q.textinput.Width)
}

func TestQueryInput_View(t *testing.T) {
	q := NewQueryInput(nil)
	q.SetValue("hello")

	assert.Contains(t, q.View(), "Search:")
	assert.Contains(t, q.View(), "hello")
}
