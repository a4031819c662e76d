// Package settings provides the settings view for the TUI.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
)

// row is one selectable line: a sort key or a source.
type row struct {
	sortKey  domain.SortKey
	sourceID string
}

// View lists the sort orders and sources. Selecting a sort order stores it;
// selecting a source toggles it.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	service  driving.SettingsService
	settings domain.Settings
	rows     []row
	selected int
	err      error

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:  s,
		keymap:  km,
		service: service,
		width:   80,
		height:  24,
	}
	v.Refresh()
	return v
}

// Refresh reloads the settings snapshot.
func (v *View) Refresh() {
	if v.service == nil {
		return
	}
	v.settings = v.service.Get()

	rows := make([]row, 0, len(domain.AllSortKeys())+len(v.settings.Sources))
	for _, k := range domain.AllSortKeys() {
		rows = append(rows, row{sortKey: k})
	}
	for _, src := range v.settings.Sources {
		rows = append(rows, row{sourceID: src.ID})
	}
	v.rows = rows
	v.selected = min(v.selected, max(len(rows)-1, 0))
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case messages.SettingsUpdated:
		v.Refresh()
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.SwitchView), msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.rows)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Toggle):
		v.err = v.activate()
		v.Refresh()
	}
	return v, nil
}

// activate applies the selected row.
func (v *View) activate() error {
	if v.service == nil {
		return fmt.Errorf("settings service not available")
	}
	if v.selected < 0 || v.selected >= len(v.rows) {
		return nil
	}

	r := v.rows[v.selected]
	if r.sortKey != "" {
		return v.service.SetSortBy(r.sortKey)
	}

	src, _ := v.settings.Source(r.sourceID)
	if src.Enabled {
		return v.service.DisableSource(r.sourceID)
	}
	return v.service.EnableSource(r.sourceID)
}

// View renders the settings view.
func (v *View) View() string {
	sections := []string{
		v.styles.Title.Render("Settings"),
		"",
		v.styles.Subtitle.Render("Sort by"),
	}

	sortRows := len(domain.AllSortKeys())
	for i, r := range v.rows {
		if i == sortRows {
			sections = append(sections, "", v.styles.Subtitle.Render("Sources"))
		}
		sections = append(sections, v.renderRow(i, r))
	}
	if len(v.rows) == sortRows {
		sections = append(sections, "", v.styles.Subtitle.Render("Sources"), v.styles.Muted.Render("  (none registered)"))
	}

	if v.err != nil {
		sections = append(sections, "", v.styles.Error.Render("Error: "+v.err.Error()))
	}

	hints := make([]string, 0, len(v.keymap.SettingsHelp()))
	for _, b := range v.keymap.SettingsHelp() {
		hints = append(hints, b.Help().Key+": "+b.Help().Desc)
	}
	sections = append(sections, "", v.styles.Help.Render(strings.Join(hints, " | ")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderRow(index int, r row) string {
	var label string
	if r.sortKey != "" {
		mark := "( )"
		if r.sortKey == v.settings.SortBy {
			mark = "(•)"
		}
		label = fmt.Sprintf("%s %s", mark, r.sortKey.Description())
	} else {
		mark := "[ ]"
		if src, _ := v.settings.Source(r.sourceID); src.Enabled {
			mark = "[x]"
		}
		label = fmt.Sprintf("%s %s", mark, r.sourceID)
	}

	if index == v.selected {
		return v.styles.Selected.Render("> " + label)
	}
	return v.styles.Normal.Render("  " + label)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Settings returns the last loaded settings.
func (v *View) Settings() domain.Settings {
	return v.settings
}

// Selected returns the index of the selected row.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the error of the last action, if any.
func (v *View) Err() error {
	return v.err
}
