package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driving"
)

// execute runs the root command with args and returns its output.
// Flag variables are reset first because cobra keeps them between runs.
func execute(args ...string) (string, error) {
	searchLimit, searchJSON, searchTimeout, searchRefresh = 10, false, 30*time.Second, false
	verbose = false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Flags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit, "limit flag should exist")
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "10", limit.DefValue)

	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
	assert.NotNil(t, searchCmd.Flags().Lookup("refresh"))
	timeout := searchCmd.Flags().Lookup("timeout")
	require.NotNil(t, timeout)
	assert.Equal(t, "30s", timeout.DefValue)
}

func TestSearchCmd_RejectsExtraArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search", "one", "two")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestSearchCmd_BlankQuery(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search", "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.queries, "no session should be opened")
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) { *v = settledView("go") }

	out, err := execute("search", "go")

	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, ts.queries)
	assert.Equal(t, 1, ts.session.mounted)
	assert.Equal(t, 1, ts.released)
	assert.Contains(t, out, `Results for "go"`)
	assert.Contains(t, out, "[1] notes.md (2.00)")
	assert.Contains(t, out, "[2] org/repo#1 Go issue")
	assert.Contains(t, out, "go notes")
	assert.Contains(t, out, "Location: multisearch://search?q=go")
}

func TestSearchCmd_ResumesWithoutQuery(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) { *v = settledView("saved") }

	out, err := execute("search")

	require.NoError(t, err)
	assert.Equal(t, []string{""}, ts.queries)
	assert.Contains(t, out, `Results for "saved"`)
}

func TestSearchCmd_ReusesCachedResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) { *v = settledView("go") }

	_, err := execute("search", "go")

	require.NoError(t, err)
	assert.Empty(t, ts.session.searches, "cached results are shown as is")
}

func TestSearchCmd_RefreshSearchesAgain(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) { *v = settledView("go") }

	out, err := execute("search", "--refresh", "go")

	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, ts.session.searches)
	assert.Contains(t, out, `Results for "go"`)
}

func TestSearchCmd_RefreshWithoutQueryUsesResumedQuery(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) { *v = settledView("saved") }

	_, err := execute("search", "--refresh")

	require.NoError(t, err)
	assert.Equal(t, []string{"saved"}, ts.session.searches)
}

func TestSearchCmd_RefreshSkippedWhileMountSearches(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) {
		*v = settledView("go")
		v.Loading = true
	}

	_, err := execute("search", "--refresh", "go")

	require.NoError(t, err)
	assert.Empty(t, ts.session.searches, "the search started on mount is not repeated")
}

func TestSearchCmd_IdleSession(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search")

	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to search")
}

func TestSearchCmd_AwaitingSources(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) {
		v.Query = "go"
		v.HasSearched = true
	}

	_, err := execute("search", "go")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings enable")
}

func TestSearchCmd_WaitFails(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) {
		*v = settledView("go")
		v.Loading = true
	}
	ts.session.waitErr = domain.ErrNotSettled

	_, err := execute("search", "go")

	assert.ErrorIs(t, err, domain.ErrNotSettled)
	assert.Equal(t, 1, ts.released)
}

func TestSearchCmd_LimitFlag(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) { *v = settledView("go") }

	out, err := execute("search", "--limit", "1", "go")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] notes.md")
	assert.NotContains(t, out, "[2]")
}

func TestSearchCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.session.onMount = func(v *domain.SessionView) { *v = settledView("go") }

	out, err := execute("search", "--json", "go")
	require.NoError(t, err)

	var view domain.SessionView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "go", view.Query)
	assert.Len(t, view.Results, 2)
	assert.Equal(t, 2, view.TotalSources)
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil)

	_, err := execute("search", "go")

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOutputSearchTable_ShowsErrorsAndEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchTable(rootCmd, domain.SessionView{
		Query:        "x",
		TotalSources: 2,
		Errors: map[string]string{
			"github":     "rate limited",
			"filesystem": "source unavailable",
		},
	})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "No results found.")
	assert.Contains(t, out, "Unavailable sources:")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("filesystem:")), bytes.Index(buf.Bytes(), []byte("github:")))
}

func TestLimitResults(t *testing.T) {
	results := settledView("x").Results

	assert.Len(t, limitResults(results, 0), 2)
	assert.Len(t, limitResults(results, 1), 1)
	assert.Len(t, limitResults(results, 5), 2)
}

func TestProgressPrinter(t *testing.T) {
	buf := new(bytes.Buffer)
	printer := progressPrinter(buf)

	printer(domain.SessionView{Loading: true, CompletedSources: 1, TotalSources: 2})
	assert.Contains(t, buf.String(), "searching 1/2 sources")

	buf.Reset()
	printer(domain.SessionView{})
	assert.Equal(t, "\r\033[K", buf.String())
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))
}

func TestPrepare_BootstrapsOnce(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil)

	calls := 0
	SetBootstrap(func(dir string) (*Services, error) {
		calls++
		assert.Equal(t, "/tmp/ms", dir)
		return &Services{
			Settings: ts.settings,
			OpenSession: func(string) (driving.SessionCoordinator, func(), error) {
				return ts.session, nil, nil
			},
		}, nil
	})

	_, err := execute("--config-dir", "/tmp/ms", "settings", "show")
	require.NoError(t, err)
	_, err = execute("settings", "show")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	configDir = ""
}

func TestPrepare_VersionSkipsBootstrap(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil)
	SetBootstrap(func(string) (*Services, error) {
		t.Fatal("bootstrap should not run for version")
		return nil, nil
	})

	_, err := execute("version")

	assert.NoError(t, err)
}

func TestRequireSession_NilReleaseIsSafe(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	openSession = func(string) (driving.SessionCoordinator, func(), error) {
		return ts.session, nil, nil
	}

	_, release, err := requireSession("")
	require.NoError(t, err)
	release()
}
