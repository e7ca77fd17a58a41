package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/ganot/project-sentry/internal/domain/project"
)

// View identifies the active screen.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewUpload    View = "upload"
	ViewIssues    View = "issues"
	ViewViewer    View = "viewer"
)

// Known reports whether v is one of the four screens.
func (v View) Known() bool {
	_, ok := viewSpecs[v]
	return ok
}

// ParseView parses a view identifier strictly.
func ParseView(raw string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(raw)))
	if !v.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, raw)
	}
	return v, nil
}

// LoadOutcome records which path LoadProjects took.
type LoadOutcome string

const (
	// OutcomeLive means the remote collection was installed.
	OutcomeLive LoadOutcome = "live"
	// OutcomeFallback means the remote source was unavailable and the canned
	// dataset was installed.
	OutcomeFallback LoadOutcome = "fallback"
	// OutcomeEmpty means the load failed unexpectedly and the collection was cleared.
	OutcomeEmpty LoadOutcome = "empty"
)

// LoadResult describes a completed LoadProjects call.
type LoadResult struct {
	Outcome LoadOutcome `json:"outcome"`
	Count   int         `json:"count"`
	Err     error       `json:"-"`
}

// Snapshot is a copy of the application state.
type Snapshot struct {
	Projects []project.Project `json:"projects"`
	Selected *project.Project  `json:"selected_project,omitempty"`
	View     View              `json:"current_view"`
	Loading  bool              `json:"loading"`
}

// ShowSplash reports whether the full-screen loading state applies:
// a request is in flight and there is nothing to show yet.
func (s Snapshot) ShowSplash() bool {
	return s.Loading && len(s.Projects) == 0
}

// File is an upload candidate.
type File struct {
	Name string
	Size int64
	Body io.Reader
}

// DemoUploadMessage is returned when a failed upload was replaced by a
// synthesized project.
const DemoUploadMessage = "File uploaded successfully (demo mode)"

// UploadResult is the envelope returned by UploadFile.
type UploadResult struct {
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
	// Synthesized is set when the real upload failed and Project was
	// fabricated from the file metadata. Cause holds the masked failure.
	Synthesized bool             `json:"synthesized"`
	Project     *project.Project `json:"project,omitempty"`
	Cause       error            `json:"-"`
}
