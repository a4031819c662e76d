package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/multisearch/internal/core/domain"
)

func TestSettingsCmd_Show(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Sources = append(ts.settings.settings.Sources, domain.SourceSetting{ID: "github"})

	out, err := execute("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Sort: Relevance (relevance)")
	assert.Contains(t, out, "filesystem   enabled")
	assert.Contains(t, out, "github       disabled")
}

func TestSettingsCmd_ShowNoSources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Sources = nil

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "(none registered)")
}

func TestSettingsCmd_Sort(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    domain.SortKey
		wantErr error
	}{
		{"date", "date", domain.SortByDate, nil},
		{"mixed case", "Title", domain.SortByTitle, nil},
		{"invalid", "random", domain.SortByRelevance, domain.ErrInvalidSortKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, cleanup := setupTestServices()
			defer cleanup()

			_, err := execute("settings", "sort", tt.arg)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, ts.settings.settings.SortBy)
		})
	}
}

func TestPromptSortKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.SortKey
	}{
		{"choice", "3\n", domain.SortByTitle},
		{"default keeps current", "\n", domain.SortByDate},
		{"out of range keeps current", "9\n", domain.SortByDate},
		{"eof keeps current", "", domain.SortByDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			rootCmd.SetOut(buf)

			got := promptSortKey(rootCmd, bufio.NewReader(strings.NewReader(tt.input)), domain.SortByDate)

			assert.Equal(t, tt.want, got)
			assert.Contains(t, buf.String(), "Enter choice [2]")
		})
	}
}

func TestSettingsCmd_EnableDisable(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "enable", "github")
	require.NoError(t, err)
	assert.Contains(t, out, "Enabled github.")

	out, err = execute("settings", "disable", "filesystem")
	require.NoError(t, err)
	assert.Contains(t, out, "Disabled filesystem.")

	assert.Equal(t, []string{"github"}, ts.settings.settings.EnabledSources())
}

func TestSettingsCmd_DisableUnknown(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("settings", "disable", "dropbox")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.err = errors.New("disk full")

	_, err := execute("settings", "enable", "github")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil)

	_, err := execute("settings", "show")

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{"empty uses default", "", 4, 1, 1},
		{"valid", "2", 4, 1, 2},
		{"max", "4", 4, 1, 4},
		{"zero", "0", 4, 1, 1},
		{"too large", "5", 4, 1, 1},
		{"not a number", "abc", 4, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}
