// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/multisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/multisearch/internal/core/domain"
)

// linesPerResult is the height of one rendered result.
const linesPerResult = 3

// ResultList displays merged results in a navigable list.
// Results are replaced while a search streams in; the selection follows
// the selected result across updates and re-sorts.
type ResultList struct {
	results  []domain.Result
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the visible window of results.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return ""
	}

	visible := max((r.height-2)/linesPerResult, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.results))

	lines := make([]string, 0, end-start+1)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results))))
	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}
	return strings.Join(lines, "\n")
}

// renderResult formats a result as title, source and snippet lines.
func (r *ResultList) renderResult(index int, result *domain.Result) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := result.Title
	if title == "" {
		title = "(Untitled)"
	}
	title = truncate(title, max(r.width-12, 10))

	score := fmt.Sprintf("%.2f", result.Score)
	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(indicator+title) + " " + r.styles.Muted.Render(score)
	} else {
		titleLine = r.styles.Normal.Render(indicator+title) + " " + r.styles.Muted.Render(score)
	}

	sourceLine := "    " + r.styles.SourceTag.Render(result.SourceID) + " " +
		r.styles.Muted.Render(truncate(result.URL, max(r.width-lipgloss.Width(result.SourceID)-6, 10)))

	snippet := truncate(result.Snippet, max(r.width-6, 20))
	return titleLine + "\n" + sourceLine + "\n" + r.styles.Muted.Render("    "+snippet)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResults replaces the results, keeping the selected result selected
// when it is still present.
func (r *ResultList) SetResults(results []domain.Result) {
	var selectedKey string
	if cur := r.SelectedResult(); cur != nil {
		selectedKey = cur.SourceID + "\x00" + cur.ID
	}

	r.results = results
	if selectedKey != "" {
		for i := range results {
			if results[i].SourceID+"\x00"+results[i].ID == selectedKey {
				r.selected = i
				return
			}
		}
	}
	r.selected = min(r.selected, max(len(results)-1, 0))
}

// Results returns the current results.
func (r *ResultList) Results() []domain.Result {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.Result {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
