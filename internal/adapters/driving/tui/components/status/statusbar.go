// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/multisearch/internal/core/domain"
)

// Bar summarises the session and shows keybinding hints.
type Bar struct {
	styles  *styles.Styles
	spinner spinner.Model
	hints   []key.Binding
	view    domain.SessionView
	message string
	isError bool
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, hints []key.Binding) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	return &Bar{
		styles:  s,
		spinner: sp,
		hints:   hints,
		width:   80,
	}
}

// Tick starts the loading spinner.
func (b *Bar) Tick() tea.Cmd {
	return b.spinner.Tick
}

// Update advances the spinner while a search is loading.
func (b *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return b, nil
	}
	if !b.view.Loading {
		return b, nil
	}
	var cmd tea.Cmd
	b.spinner, cmd = b.spinner.Update(msg)
	return b, cmd
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := max(b.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

// renderLeft describes the session phase, or the last message.
func (b *Bar) renderLeft() string {
	if b.message != "" {
		if b.isError {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Normal.Render(b.message)
	}

	v := b.view
	switch v.Phase() {
	case domain.PhaseSearching:
		return b.spinner.View() + " " + b.styles.Normal.Render(
			fmt.Sprintf("Searching %d/%d sources", v.CompletedSources, v.TotalSources))
	case domain.PhaseAwaitingSources:
		return b.styles.Warning.Render("No sources enabled")
	case domain.PhaseSettled:
		summary := fmt.Sprintf("%d results from %d/%d sources", len(v.Results), len(v.AvailableSources), v.TotalSources)
		if len(v.Errors) > 0 {
			return b.styles.Normal.Render(summary) + " " + b.styles.Warning.Render(fmt.Sprintf("(%d failed)", len(v.Errors)))
		}
		return b.styles.Normal.Render(summary)
	case domain.PhaseIdle:
	}
	return b.styles.Muted.Render("Ready")
}

// renderRight shows the sort order and keybinding hints.
func (b *Bar) renderRight() string {
	hints := make([]string, 0, len(b.hints)+1)
	if b.view.SortPreference != "" {
		hints = append(hints, "sort: "+b.view.SortPreference.Description())
	}
	for _, h := range b.hints {
		help := h.Help()
		hints = append(hints, help.Key+": "+help.Desc)
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetView updates the session summary and clears any message.
func (b *Bar) SetView(v domain.SessionView) {
	b.view = v
	b.message = ""
	b.isError = false
}

// SetMessage shows message instead of the session summary.
func (b *Bar) SetMessage(message string) {
	b.message = message
	b.isError = false
}

// SetError shows err instead of the session summary.
func (b *Bar) SetError(err error) {
	if err == nil {
		b.message, b.isError = "", false
		return
	}
	b.message = err.Error()
	b.isError = true
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
