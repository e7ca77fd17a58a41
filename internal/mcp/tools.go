package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/ganot/project-sentry/internal/transport"
)

type emptyInput struct{}

type idInput struct {
	ID string `json:"id" jsonschema:"project id"`
}

type selectInput struct {
	ID string `json:"id,omitempty" jsonschema:"project id; empty clears the selection"`
}

type viewInput struct {
	View string `json:"view" jsonschema:"dashboard, upload, issues or viewer; anything else shows the dashboard"`
}

type uploadInput struct {
	Path string `json:"path" jsonschema:"local path of the .ifc file to upload"`
}

type issuesInput struct {
	ProjectID string `json:"project_id" jsonschema:"project id"`
	Severity  string `json:"severity,omitempty" jsonschema:"only return issues of this severity: critical, warning or info"`
}

type bandInput struct {
	Score float64 `json:"score" jsonschema:"health score, nominally 0-100"`
}

type kvKeyInput struct {
	Key string `json:"key" jsonschema:"storage key"`
}

type kvSetInput struct {
	Key   string `json:"key" jsonschema:"storage key"`
	Value any    `json:"value" jsonschema:"any JSON value"`
}

// projectView is a project with its derived band, as the dashboard shows it.
type projectView struct {
	project.Project
	Band              project.Band `json:"health_band"`
	ValidationPercent int          `json:"validation_percent"`
}

func newProjectView(p project.Project) projectView {
	return projectView{Project: p, Band: p.Band(), ValidationPercent: p.ValidationPercent()}
}

type stateView struct {
	Projects     []projectView          `json:"projects"`
	Selected     *projectView           `json:"selected_project,omitempty"`
	CurrentView  dashboard.View         `json:"current_view"`
	Loading      bool                   `json:"loading"`
	Splash       bool                   `json:"show_splash"`
	Component    dashboard.Component    `json:"component"`
	Capabilities []dashboard.Capability `json:"capabilities"`
}

func newStateView(snap dashboard.Snapshot, props dashboard.ViewProps) stateView {
	out := stateView{
		Projects:     make([]projectView, 0, len(snap.Projects)),
		CurrentView:  snap.View,
		Loading:      snap.Loading,
		Splash:       snap.ShowSplash(),
		Component:    props.Component,
		Capabilities: props.Capabilities,
	}
	for _, p := range snap.Projects {
		out.Projects = append(out.Projects, newProjectView(p))
	}
	if snap.Selected != nil {
		sel := newProjectView(*snap.Selected)
		out.Selected = &sel
	}
	return out
}

func registerTools(server *sdkmcp.Server, cfg Config) {
	h := &toolHandlers{cfg: cfg}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the loaded projects in display order with health bands",
	}, h.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_state",
		Description: "Get the dashboard state: projects, selection, active view and loading flag",
	}, h.getState)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reload_projects",
		Description: "Reload projects from the API. Falls back to sample data when the API is unreachable",
	}, h.reloadProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_project",
		Description: "Select a loaded project by id",
	}, h.selectProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_view",
		Description: "Switch the active view and return the props its component receives",
	}, h.setView)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        uploadTool,
		Description: "Upload a local .ifc model file. Progress is reported when the request carries a progress token",
	}, h.uploadFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "health_band",
		Description: "Classify a health score into its band (Excellent, Good, Fair, Poor)",
	}, h.healthBand)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "navigation",
		Description: "List the navigation entries in display order",
	}, h.navigation)

	if cfg.Insights != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_project",
			Description: "Fetch one project with its validation results from the API",
		}, h.getProject)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_issues",
			Description: "Fetch the issue list of a project from the API",
		}, h.getIssues)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_dashboard",
			Description: "Fetch dashboard statistics: summary, recent projects, activity, trend and issue distribution",
		}, h.getDashboard)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "api_health",
			Description: "Check that the Project Sentry API is up",
		}, h.apiHealth)
	}

	if cfg.KV != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "kv_get",
			Description: "Read a stored JSON value",
		}, h.kvGet)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "kv_set",
			Description: "Store a JSON value under a key",
		}, h.kvSet)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "kv_remove",
			Description: "Remove a stored key",
		}, h.kvRemove)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "kv_keys",
			Description: "List stored keys",
		}, h.kvKeys)
	}
}

type toolHandlers struct {
	cfg Config
}

func (h *toolHandlers) listProjects(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	snap := h.cfg.Store.Snapshot()
	out := make([]projectView, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		out = append(out, newProjectView(p))
	}
	return jsonResult(map[string]any{"projects": out})
}

func (h *toolHandlers) getState(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	return jsonResult(newStateView(h.cfg.Store.Snapshot(), h.cfg.Store.Props()))
}

func (h *toolHandlers) reloadProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	res := h.cfg.Store.LoadProjects(ctx)
	out := map[string]any{"outcome": res.Outcome, "count": res.Count}
	if res.Err != nil {
		out["cause"] = res.Err.Error()
	}
	return jsonResult(out)
}

func (h *toolHandlers) selectProject(_ context.Context, _ *sdkmcp.CallToolRequest, in selectInput) (*sdkmcp.CallToolResult, any, error) {
	if err := h.cfg.Store.SelectProject(in.ID); err != nil {
		return errorResult(err)
	}
	return jsonResult(newStateView(h.cfg.Store.Snapshot(), h.cfg.Store.Props()))
}

func (h *toolHandlers) setView(_ context.Context, _ *sdkmcp.CallToolRequest, in viewInput) (*sdkmcp.CallToolResult, any, error) {
	h.cfg.Store.SetView(dashboard.View(in.View))
	return jsonResult(h.cfg.Store.Props())
}

func (h *toolHandlers) uploadFile(ctx context.Context, req *sdkmcp.CallToolRequest, in uploadInput) (*sdkmcp.CallToolResult, any, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return errorResult(fmt.Errorf("%w: %w", dashboard.ErrInvalidUpload, err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errorResult(fmt.Errorf("%w: %w", dashboard.ErrInvalidUpload, err))
	}
	name := filepath.Base(in.Path)
	if err := project.ValidateFile(name, info.Size(), h.cfg.MaxFileSize); err != nil {
		return errorResult(err)
	}

	res, err := h.cfg.Store.UploadFile(ctx, dashboard.File{Name: name, Size: info.Size(), Body: f}, h.progressNotifier(ctx, req))
	if err != nil {
		return errorResult(err)
	}
	out := map[string]any{"message": res.Message, "project_id": res.ProjectID, "synthesized": res.Synthesized}
	if res.Project != nil {
		out["project"] = newProjectView(*res.Project)
	}
	if res.Cause != nil {
		out["cause"] = res.Cause.Error()
	}
	return jsonResult(out)
}

// progressNotifier forwards upload progress as MCP progress notifications
// when the caller asked for them.
func (h *toolHandlers) progressNotifier(ctx context.Context, req *sdkmcp.CallToolRequest) func(int) {
	if req == nil || req.Params == nil || req.Session == nil {
		return nil
	}
	token := req.Params.GetProgressToken()
	if token == nil {
		return nil
	}
	return func(pct int) {
		err := req.Session.NotifyProgress(ctx, &sdkmcp.ProgressNotificationParams{
			ProgressToken: token,
			Progress:      float64(pct),
			Total:         100,
		})
		if err != nil {
			h.cfg.Logger.Debug("progress notification failed", "error", err)
		}
	}
}

func (h *toolHandlers) healthBand(_ context.Context, _ *sdkmcp.CallToolRequest, in bandInput) (*sdkmcp.CallToolResult, any, error) {
	return jsonResult(project.HealthBandFloat(in.Score))
}

func (h *toolHandlers) navigation(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	return jsonResult(map[string]any{"items": dashboard.NavigationItems()})
}

func (h *toolHandlers) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in idInput) (*sdkmcp.CallToolResult, any, error) {
	detail, err := h.cfg.Insights.GetProject(ctx, in.ID)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]any{
		"project":            newProjectView(detail.Project),
		"validation_results": detail.ValidationResults,
	})
}

func (h *toolHandlers) getIssues(ctx context.Context, _ *sdkmcp.CallToolRequest, in issuesInput) (*sdkmcp.CallToolResult, any, error) {
	issues, err := h.cfg.Insights.Issues(ctx, in.ProjectID)
	if err != nil {
		return errorResult(err)
	}
	if in.Severity != "" {
		filtered := make([]transport.Issue, 0, len(issues))
		for _, is := range issues {
			if string(is.Severity) == in.Severity {
				filtered = append(filtered, is)
			}
		}
		issues = filtered
	}
	if issues == nil {
		issues = []transport.Issue{}
	}
	return jsonResult(map[string]any{"issues": issues, "count": len(issues)})
}

func (h *toolHandlers) getDashboard(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	dash, err := h.cfg.Insights.Dashboard(ctx)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(dash)
}

func (h *toolHandlers) apiHealth(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	health, err := h.cfg.Insights.Health(ctx)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(health)
}

func (h *toolHandlers) kvGet(ctx context.Context, _ *sdkmcp.CallToolRequest, in kvKeyInput) (*sdkmcp.CallToolResult, any, error) {
	raw := h.cfg.KV.Get(ctx, in.Key, nil)
	return jsonResult(map[string]any{"key": in.Key, "found": raw != nil, "value": raw})
}

func (h *toolHandlers) kvSet(ctx context.Context, _ *sdkmcp.CallToolRequest, in kvSetInput) (*sdkmcp.CallToolResult, any, error) {
	return jsonResult(map[string]any{"key": in.Key, "ok": h.cfg.KV.Set(ctx, in.Key, in.Value)})
}

func (h *toolHandlers) kvRemove(ctx context.Context, _ *sdkmcp.CallToolRequest, in kvKeyInput) (*sdkmcp.CallToolResult, any, error) {
	return jsonResult(map[string]any{"key": in.Key, "ok": h.cfg.KV.Remove(ctx, in.Key)})
}

func (h *toolHandlers) kvKeys(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	return jsonResult(map[string]any{"keys": h.cfg.KV.Keys(ctx)})
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func errorResult(err error) (*sdkmcp.CallToolResult, any, error) {
	data, merr := json.Marshal(map[string]any{"error": MapError(err)})
	if merr != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
