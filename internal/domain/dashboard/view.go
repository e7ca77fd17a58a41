package dashboard

import (
	"context"
	"slices"

	"github.com/ganot/project-sentry/internal/domain/project"
)

// Component names the presentational component a view renders.
type Component string

const (
	ComponentDashboard   Component = "Dashboard"
	ComponentFileUpload  Component = "FileUpload"
	ComponentIssuesList  Component = "IssuesList"
	ComponentModelViewer Component = "ModelViewer"
)

// Capability is one prop a component receives.
type Capability string

const (
	CapProjects        Capability = "projects"
	CapSelectedProject Capability = "selected_project"
	CapSelectProject   Capability = "on_project_select"
	CapUpload          Capability = "on_file_upload"
	CapUploadSuccess   Capability = "on_success"
)

type viewSpec struct {
	component    Component
	capabilities []Capability
}

var viewSpecs = map[View]viewSpec{
	ViewDashboard: {ComponentDashboard, []Capability{CapProjects, CapSelectedProject, CapSelectProject}},
	ViewUpload:    {ComponentFileUpload, []Capability{CapUpload, CapUploadSuccess}},
	ViewIssues:    {ComponentIssuesList, []Capability{CapSelectedProject, CapProjects, CapSelectProject}},
	ViewViewer:    {ComponentModelViewer, []Capability{CapSelectedProject}},
}

// Actions are the callbacks a view may be handed.
type Actions struct {
	SelectProject func(id string) error
	Upload        func(ctx context.Context, file File, onProgress func(int)) (UploadResult, error)
	UploadSuccess func()
}

// ViewProps is the prop set for one presentational component. Only the
// fields named in Capabilities are populated.
type ViewProps struct {
	View         View              `json:"view"`
	Component    Component         `json:"component"`
	Capabilities []Capability      `json:"capabilities"`
	Project      *project.Project  `json:"project,omitempty"`
	Projects     []project.Project `json:"projects,omitempty"`

	OnProjectSelect func(id string) error                                                            `json:"-"`
	OnFileUpload    func(ctx context.Context, file File, onProgress func(int)) (UploadResult, error) `json:"-"`
	OnSuccess       func()                                                                           `json:"-"`
}

// Has reports whether the props carry capability c.
func (p ViewProps) Has(c Capability) bool {
	return slices.Contains(p.Capabilities, c)
}

// ResolveView maps a view identifier to the props its component needs.
// Unknown and empty identifiers resolve to the dashboard.
func ResolveView(view View, snap Snapshot, actions Actions) ViewProps {
	spec, ok := viewSpecs[view]
	if !ok {
		view = ViewDashboard
		spec = viewSpecs[ViewDashboard]
	}

	props := ViewProps{
		View:         view,
		Component:    spec.component,
		Capabilities: slices.Clone(spec.capabilities),
	}
	for _, c := range spec.capabilities {
		switch c {
		case CapProjects:
			props.Projects = slices.Clone(snap.Projects)
			if props.Projects == nil {
				props.Projects = []project.Project{}
			}
		case CapSelectedProject:
			if snap.Selected != nil {
				sel := *snap.Selected
				props.Project = &sel
			}
		case CapSelectProject:
			props.OnProjectSelect = actions.SelectProject
		case CapUpload:
			props.OnFileUpload = actions.Upload
		case CapUploadSuccess:
			props.OnSuccess = actions.UploadSuccess
		}
	}
	return props
}

// CapabilitiesOf returns the capability set for a view, defaulting unknown
// views to the dashboard.
func CapabilitiesOf(view View) []Capability {
	spec, ok := viewSpecs[view]
	if !ok {
		spec = viewSpecs[ViewDashboard]
	}
	return slices.Clone(spec.capabilities)
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	ID    View   `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// NavigationItems returns the navigation entries in display order.
func NavigationItems() []NavItem {
	return []NavItem{
		{ID: ViewDashboard, Label: "Dashboard", Icon: "fas fa-chart-line"},
		{ID: ViewUpload, Label: "Upload", Icon: "fas fa-cloud-upload-alt"},
		{ID: ViewIssues, Label: "Issues", Icon: "fas fa-exclamation-triangle"},
		{ID: ViewViewer, Label: "Viewer", Icon: "fas fa-cube"},
	}
}
