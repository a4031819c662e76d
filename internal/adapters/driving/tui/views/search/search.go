// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
)

// View is the search view: query input, streaming results and a status bar.
//
// Session updates arrive on the session's listener goroutine and are handed
// to the bubbletea loop through a one-slot channel that keeps only the
// newest view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	session  driving.SessionCoordinator
	settings driving.SettingsService
	ctx      context.Context

	updates     chan domain.SessionView
	unsubscribe func()

	current   domain.SessionView
	lastQuery string

	width  int
	height int
	ready  bool
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SessionCoordinator,
	settings driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQueryInput(s),
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km.SearchHelp()),
		session:   session,
		settings:  settings,
		ctx:       context.Background(),
		updates:   make(chan domain.SessionView, 1),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used to mount the session.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init subscribes to the session, mounts it and starts listening for updates.
func (v *View) Init() tea.Cmd {
	if v.unsubscribe == nil {
		v.unsubscribe = v.session.Subscribe(v.push)
	}
	v.apply(v.session.View())

	return tea.Batch(v.input.Init(), v.mount(), v.waitForUpdate())
}

// Close stops receiving session updates.
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// push replaces any pending update with view. Runs on the session's goroutine.
func (v *View) push(view domain.SessionView) {
	for {
		select {
		case v.updates <- view:
			return
		default:
		}
		select {
		case <-v.updates:
		default:
		}
	}
}

// mount restores the session off the UI goroutine; the result arrives
// through the listener.
func (v *View) mount() tea.Cmd {
	return func() tea.Msg {
		v.session.Mount(v.ctx)
		return nil
	}
}

// waitForUpdate delivers the next pending session view.
func (v *View) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case view := <-v.updates:
			return messages.SessionUpdated{View: view}
		case <-v.ctx.Done():
			return nil
		}
	}
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SessionUpdated:
		wasLoading := v.current.Loading
		v.apply(msg.View)
		cmds := []tea.Cmd{v.waitForUpdate()}
		if msg.View.Loading && !wasLoading {
			cmds = append(cmds, v.statusbar.Tick())
		}
		return v, tea.Batch(cmds...)

	case messages.ErrorOccurred:
		v.statusbar.SetError(msg.Err)
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	cmds = append(cmds, cmd)
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

// apply renders a session view. The input follows the session's query only
// when the query changes, so typing is not overwritten by progress updates.
func (v *View) apply(view domain.SessionView) {
	v.current = view
	if view.Query != v.lastQuery {
		v.lastQuery = view.Query
		v.input.SetValue(view.Query)
	}
	v.list.SetResults(view.Results)
	v.statusbar.SetView(view)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keymap.Search):
		query := v.input.Value()
		if strings.TrimSpace(query) == "" {
			return v, nil
		}
		v.session.HandleSearch(query)
		return v, nil

	case key.Matches(msg, v.keymap.Reset):
		v.session.HandleReset()
		return v, nil

	case key.Matches(msg, v.keymap.CycleSort):
		return v, v.cycleSort()

	case key.Matches(msg, v.keymap.SwitchView):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSettings}
		}

	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
		return v, nil

	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// cycleSort stores the next sort order. The session reorders its results
// when the settings store reports the change.
func (v *View) cycleSort() tea.Cmd {
	if v.settings == nil {
		v.statusbar.SetError(ErrNoSettingsService)
		return nil
	}

	current := v.current.SortPreference
	if !current.IsValid() {
		current = domain.DefaultSortKey
	}
	next := current.Next()
	if err := v.settings.SetSortBy(next); err != nil {
		v.statusbar.SetError(err)
		return nil
	}
	v.statusbar.SetMessage("Sort: " + next.Description())
	return nil
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections,
		v.styles.Title.Render("multisearch")+"  "+v.styles.Muted.Render(v.current.Location),
		"",
		v.input.View(),
		"",
	)

	if errs := v.renderErrors(); errs != "" {
		sections = append(sections, errs, "")
	}

	switch v.current.Phase() {
	case domain.PhaseSettled:
		if len(v.current.Results) == 0 {
			sections = append(sections, v.styles.Muted.Render("No results found."))
		}
	case domain.PhaseAwaitingSources:
		sections = append(sections, v.styles.Warning.Render("Enable a source in settings (tab) to run this search."))
	case domain.PhaseIdle, domain.PhaseSearching:
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderErrors lists sources that failed, in a stable order.
func (v *View) renderErrors() string {
	if len(v.current.Errors) == 0 {
		return ""
	}
	ids := make([]string, 0, len(v.current.Errors))
	for id := range v.current.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = v.styles.Error.Render(id + ": " + v.current.Errors[id])
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-9)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the query input.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the text in the query input.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Session returns the last session view received.
func (v *View) Session() domain.SessionView {
	return v.current
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.Result {
	return v.list.SelectedResult()
}

// StatusMessage returns the status bar's message, if any.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}
