package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `project-sentry exposes the IFC model health dashboard.

Concepts:
- Project: one uploaded model file with a health score (0-100), element counts and issue counts by severity.
- Health band: Excellent (90-100), Good (80-89), Fair (70-79), Poor (0-69).
- View: dashboard, upload, issues or viewer. Unknown views show the dashboard.

Workflow:
1) get_state to see loaded projects, the selection and the active view.
2) reload_projects when the API may have new data. If the API is unreachable, sample data is shown.
3) select_project and set_view to drive what is displayed.
4) upload_file with a local .ifc path. A failed upload may produce a synthesized project; check "synthesized" in the result.
5) get_project, get_issues and get_dashboard read detail straight from the API.

Docs:
- sentry://docs/index
- sentry://docs/health-bands
- sentry://docs/views
- sentry://state (live dashboard state as JSON)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "sentry://docs/index",
		Name:        "docs_index",
		Title:       "project-sentry docs index",
		Description: "Entry point: what the tools do and what to read next.",
		Content: `# project-sentry

## Tools

- ` + "`get_state`" + `, ` + "`list_projects`" + `: read the loaded collection.
- ` + "`reload_projects`" + `: refetch. The outcome is live, fallback (sample data) or empty.
- ` + "`select_project`" + `, ` + "`set_view`" + `: change what is shown.
- ` + "`upload_file`" + `: send a .ifc file (500 MB max).
- ` + "`get_project`" + `, ` + "`get_issues`" + `, ` + "`get_dashboard`" + `, ` + "`api_health`" + `: API reads.
- ` + "`kv_get`" + `, ` + "`kv_set`" + `, ` + "`kv_remove`" + `, ` + "`kv_keys`" + `: local JSON storage, when enabled.

## Read on demand

- ` + "`sentry://docs/health-bands`" + `
- ` + "`sentry://docs/views`" + `
`,
	},
	{
		URI:         "sentry://docs/health-bands",
		Name:        "docs_health_bands",
		Title:       "Health bands",
		Description: "Score ranges, labels and colors.",
		Content: `# Health bands

| Band | Scores | Color |
|---|---|---|
| Excellent | 90-100 | #38a169 |
| Good | 80-89 | #38a169 |
| Fair | 70-79 | #ed8936 |
| Poor | 0-69 | #e53e3e |

Scores outside 0-100 and non-numeric values classify as Poor.
Fractional scores between bands (for example 89.5) also fall through to Poor.
`,
	},
	{
		URI:         "sentry://docs/views",
		Name:        "docs_views",
		Title:       "Views and props",
		Description: "Which component each view renders and what it receives.",
		Content: `# Views

| View | Component | Receives |
|---|---|---|
| dashboard | Dashboard | projects, selected_project, on_project_select |
| upload | FileUpload | on_file_upload, on_success |
| issues | IssuesList | selected_project, projects, on_project_select |
| viewer | ModelViewer | selected_project |

Any other view identifier renders the dashboard. A successful upload returns to the dashboard.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

const stateURI = "sentry://state"

func registerStateResource(server *sdkmcp.Server, store StateStore) {
	server.AddResource(&sdkmcp.Resource{
		URI:         stateURI,
		Name:        "state",
		Title:       "Dashboard state",
		Description: "Loaded projects, selection, active view and loading flag.",
		MIMEType:    "application/json",
	}, func(_ context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		data, err := json.Marshal(newStateView(store.Snapshot(), store.Props()))
		if err != nil {
			return nil, fmt.Errorf("encoding state: %w", err)
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      stateURI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	})
}
