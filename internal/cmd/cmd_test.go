package cmd_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ganot/project-sentry/internal/cmd"
	"github.com/ganot/project-sentry/internal/testserver"
)

type harness struct {
	api    *testserver.TestServer
	dbPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{
		"SENTRY_CONFIG_PATH", "SENTRY_API_URL", "SENTRY_API_TIMEOUT", "SENTRY_DB_PATH",
		"SENTRY_LOG_LEVEL", "SENTRY_LOG_PATH", "SENTRY_TRANSPORT_MODE", "SENTRY_SERVER_HOST",
		"SENTRY_SERVER_PORT", "SENTRY_FALLBACK_ENABLED", "SENTRY_MASK_UPLOAD_FAILURES",
	} {
		t.Setenv(k, "")
	}
	return &harness{
		api:    testserver.New(t),
		dbPath: filepath.Join(t.TempDir(), "state", "sentry.db"),
	}
}

// run executes the CLI with JSON output and returns stdout and stderr.
func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--api-url", h.api.BaseURL(), "--db", h.dbPath, "--format", "json"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (h *harness) runJSON(t *testing.T, out any, args ...string) {
	t.Helper()
	stdout, stderr, err := h.run(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	require.NoError(t, json.Unmarshal([]byte(stdout), out), stdout)
}

type stateOut struct {
	Outcome  string `json:"outcome"`
	Projects []struct {
		ID   string `json:"id"`
		Band string `json:"health_band"`
	} `json:"projects"`
	Selected *struct {
		ID string `json:"id"`
	} `json:"selected_project"`
	CurrentView string   `json:"current_view"`
	Component   string   `json:"component"`
	Caps        []string `json:"capabilities"`
}

func TestProjects_ListsWithBands(t *testing.T) {
	h := newHarness(t)

	var out stateOut
	h.runJSON(t, &out, "projects")
	require.Equal(t, "live", out.Outcome)
	require.Len(t, out.Projects, 2)

	bands := map[string]string{}
	for _, p := range out.Projects {
		bands[p.ID] = p.Band
	}
	require.Equal(t, "Excellent", bands["tower-a"])
	require.Equal(t, "Fair", bands["garage"])
}

func TestProjects_FallbackWhenAPIDown(t *testing.T) {
	h := newHarness(t)
	h.api.FailWith(http.StatusServiceUnavailable, "maintenance")

	var out stateOut
	h.runJSON(t, &out, "projects")
	require.Equal(t, "fallback", out.Outcome)
	require.NotEmpty(t, out.Projects)
	require.Equal(t, "sample-1", out.Projects[0].ID)
}

func TestSelectAndView_PersistAcrossRuns(t *testing.T) {
	h := newHarness(t)

	var selected stateOut
	h.runJSON(t, &selected, "select", "garage")
	require.NotNil(t, selected.Selected)
	require.Equal(t, "garage", selected.Selected.ID)

	var props struct {
		View      string `json:"view"`
		Component string `json:"component"`
		Project   *struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	h.runJSON(t, &props, "view", "issues")
	require.Equal(t, "issues", props.View)
	require.NotNil(t, props.Project)
	require.Equal(t, "garage", props.Project.ID)

	var state stateOut
	h.runJSON(t, &state, "state")
	require.NotNil(t, state.Selected)
	require.Equal(t, "garage", state.Selected.ID)
	require.Equal(t, "issues", state.CurrentView)

	h.runJSON(t, &selected, "select", "")
	require.Nil(t, selected.Selected)
}

func TestSelect_UnknownProject(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "select", "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "project not found")
}

func TestView_UnknownRendersDashboard(t *testing.T) {
	h := newHarness(t)

	var props struct {
		View      string `json:"view"`
		Component string `json:"component"`
	}
	h.runJSON(t, &props, "view", "reports")
	require.Equal(t, "dashboard", props.View)
}

func TestState_ViewFlagIsStrict(t *testing.T) {
	h := newHarness(t)

	var out stateOut
	h.runJSON(t, &out, "state", "--view", "upload")
	require.Contains(t, out.Caps, "on_file_upload")

	_, _, err := h.run(t, "state", "--view", "reports")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown view")
}

func TestUpload_Success(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "bridge.ifc")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 4096), 0o644))

	stdout, stderr, err := h.run(t, "upload", path)
	require.NoError(t, err, stderr)
	require.Contains(t, stderr, "100%")

	var out struct {
		Synthesized bool   `json:"synthesized"`
		ProjectID   string `json:"project_id"`
		FileSize    string `json:"file_size"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.False(t, out.Synthesized)
	require.NotEmpty(t, out.ProjectID)
	require.Equal(t, "4 KB", out.FileSize)

	uploads := h.api.Uploads()
	require.Len(t, uploads, 1)
	require.Equal(t, "bridge.ifc", uploads[0].Filename)
	require.EqualValues(t, 4096, uploads[0].Size)
}

func TestUpload_MaskedFailureSynthesizes(t *testing.T) {
	h := newHarness(t)
	h.api.FailWith(http.StatusInternalServerError, "disk full")
	path := filepath.Join(t.TempDir(), "annex.ifc")
	require.NoError(t, os.WriteFile(path, []byte("ISO-10303-21;"), 0o644))

	var out struct {
		Synthesized bool   `json:"synthesized"`
		Cause       string `json:"cause"`
		Project     struct {
			Name string `json:"name"`
		} `json:"project"`
	}
	h.runJSON(t, &out, "upload", "--quiet", path)
	require.True(t, out.Synthesized)
	require.Equal(t, "annex", out.Project.Name)
	require.NotEmpty(t, out.Cause)
}

func TestUpload_RejectsWrongType(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, _, err := h.run(t, "upload", path)
	require.Error(t, err)
	require.Empty(t, h.api.Uploads())
}

func TestInsights(t *testing.T) {
	h := newHarness(t)

	var detail struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
		Results []struct {
			RuleName string `json:"rule_name"`
		} `json:"validation_results"`
	}
	h.runJSON(t, &detail, "project", "tower-a")
	require.Equal(t, "tower-a", detail.Project.ID)
	require.Len(t, detail.Results, 2)

	var issues struct {
		Count  int `json:"count"`
		Issues []struct {
			Severity string `json:"severity"`
		} `json:"issues"`
	}
	h.runJSON(t, &issues, "issues", "garage", "--severity", "critical")
	require.Equal(t, 6, issues.Count)
	for _, is := range issues.Issues {
		require.Equal(t, "critical", is.Severity)
	}

	_, _, err := h.run(t, "issues", "garage", "--severity", "fatal")
	require.Error(t, err)

	var dash struct {
		Summary map[string]any `json:"summary"`
	}
	h.runJSON(t, &dash, "dashboard")
	require.NotEmpty(t, dash.Summary)

	var health struct {
		API string `json:"api"`
	}
	h.runJSON(t, &health, "health")
	require.Equal(t, h.api.BaseURL(), health.API)
}

func TestIssues_DefaultsToSelection(t *testing.T) {
	h := newHarness(t)

	var issues struct {
		ProjectID string `json:"project_id"`
		Count     int    `json:"count"`
	}
	h.runJSON(t, &issues, "issues")
	require.Equal(t, "tower-a", issues.ProjectID)
	require.Equal(t, 14, issues.Count)

	_, _, err := h.run(t, "select", "garage")
	require.NoError(t, err)

	h.runJSON(t, &issues, "issues")
	require.Equal(t, "garage", issues.ProjectID)
	require.Equal(t, 18, issues.Count)
}

func TestBand(t *testing.T) {
	h := newHarness(t)

	var band struct {
		Label string `json:"label"`
	}
	h.runJSON(t, &band, "band", "85")
	require.Equal(t, "Good", band.Label)

	var all []map[string]any
	h.runJSON(t, &all, "band", "--all")
	require.Len(t, all, 4)

	_, _, err := h.run(t, "band", "high")
	require.Error(t, err)
}

func TestNav(t *testing.T) {
	h := newHarness(t)

	var items []struct {
		ID string `json:"id"`
	}
	h.runJSON(t, &items, "nav")
	require.Len(t, items, 4)
	require.Equal(t, "dashboard", items[0].ID)
}

func TestKV(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run(t, "kv", "set", "prefs", `{"theme":"dark"}`)
	require.NoError(t, err)
	_, _, err = h.run(t, "kv", "set", "note", "plain text")
	require.NoError(t, err)

	var prefs map[string]string
	h.runJSON(t, &prefs, "kv", "get", "prefs")
	require.Equal(t, "dark", prefs["theme"])

	var note string
	h.runJSON(t, &note, "kv", "get", "note")
	require.Equal(t, "plain text", note)

	var keys []string
	h.runJSON(t, &keys, "kv", "keys")
	require.Equal(t, []string{"note", "prefs"}, keys)

	_, _, err = h.run(t, "kv", "rm", "note")
	require.NoError(t, err)
	_, _, err = h.run(t, "kv", "get", "note")
	require.Error(t, err)

	_, _, err = h.run(t, "kv", "clear")
	require.NoError(t, err)
	h.runJSON(t, &keys, "kv", "keys")
	require.Empty(t, keys)
}

func TestOutput_YAMLDefault(t *testing.T) {
	h := newHarness(t)

	root := cmd.NewRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--api-url", h.api.BaseURL(), "--db", h.dbPath, "band", "50"})
	require.NoError(t, root.Execute())

	require.False(t, strings.HasPrefix(stdout.String(), "{"))
	var band struct {
		Label string `yaml:"label"`
		Min   int    `yaml:"min"`
	}
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &band))
	require.Equal(t, "Poor", band.Label)
	require.Equal(t, 0, band.Min)
}

func TestOutput_UnknownFormat(t *testing.T) {
	h := newHarness(t)

	root := cmd.NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--format", "xml", "--db", h.dbPath, "nav"})
	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown output format")
}

func TestHelp_DescribesSavedState(t *testing.T) {
	h := newHarness(t)

	for _, name := range []string{"select", "upload"} {
		stdout, _, err := h.run(t, name, "--help")
		require.NoError(t, err, name)
		require.Contains(t, stdout, "saved in the local database", name)
	}
}
