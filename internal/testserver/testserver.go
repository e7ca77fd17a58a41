// Package testserver runs an in-process fake of the Project Sentry API for
// tests.
package testserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/ganot/project-sentry/internal/transport"
)

// Upload records one file the server received.
type Upload struct {
	Filename string
	Size     int64
}

type TestServer struct {
	Server *httptest.Server
	Now    time.Time

	mu          sync.Mutex
	projects    []project.Project
	results     map[string][]project.ValidationResult
	issues      map[string][]transport.Issue
	uploads     []Upload
	failStatus  int
	failMessage string
}

// New starts a server seeded with Seed and registers its shutdown with t.
func New(t testing.TB) *TestServer {
	t.Helper()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ts := &TestServer{
		Now:      now,
		projects: Seed(now),
		results:  map[string][]project.ValidationResult{},
		issues:   map[string][]transport.Issue{},
	}
	ts.results["tower-a"] = []project.ValidationResult{
		{RuleName: "Required properties", Status: "Passed", IssuesCount: 0, Description: "All elements carry required psets", CreatedDate: project.NewTimestamp(now)},
		{RuleName: "Naming convention", Status: "Failed", IssuesCount: 7, Description: "Elements not following the naming standard", CreatedDate: project.NewTimestamp(now)},
	}
	ts.Server = httptest.NewServer(ts.routes())
	t.Cleanup(ts.Server.Close)
	return ts
}

// Seed returns the projects a new server starts with.
func Seed(now time.Time) []project.Project {
	return []project.Project{
		{
			ID: "tower-a", Name: "Tower A", Filename: "tower_a.ifc", FileSize: "42.0 MB",
			UploadDate: project.NewTimestamp(now), HealthScore: 93, Status: project.StatusCompleted,
			TotalElements: 1200, ValidatedElements: 1150,
			Issues: project.IssueCounts{Critical: 1, Warning: 4, Info: 9},
		},
		{
			ID: "garage", Name: "Garage", Filename: "garage.ifc", FileSize: "12.5 MB",
			UploadDate: project.NewTimestamp(now.Add(-48 * time.Hour)), HealthScore: 67, Status: project.StatusCompleted,
			TotalElements: 800, ValidatedElements: 500,
			Issues: project.IssueCounts{Critical: 6, Warning: 10, Info: 2},
		},
	}
}

// BaseURL is the API root, ending in /api.
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL + "/api"
}

// SetProjects replaces the project collection.
func (ts *TestServer) SetProjects(projects ...project.Project) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.projects = slices.Clone(projects)
}

// SetIssues fixes the issue list served for a project.
func (ts *TestServer) SetIssues(projectID string, issues []transport.Issue) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.issues[projectID] = issues
}

// FailWith makes every API route answer status. An empty message omits the
// error field from the body. A zero status restores normal operation.
func (ts *TestServer) FailWith(status int, message string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.failStatus = status
	ts.failMessage = message
}

// Uploads returns the files received so far.
func (ts *TestServer) Uploads() []Upload {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return slices.Clone(ts.uploads)
}

func (ts *TestServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(ts.failureInjection)
		r.Get("/health", ts.handleHealth)
		r.Get("/projects", ts.handleListProjects)
		r.Get("/projects/{id}", ts.handleGetProject)
		r.Post("/upload", ts.handleUpload)
		r.Get("/dashboard", ts.handleDashboard)
		r.Get("/issues/{projectID}", ts.handleIssues)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	return r
}

func (ts *TestServer) failureInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		status, message := ts.failStatus, ts.failMessage
		ts.mu.Unlock()

		if status == 0 {
			next.ServeHTTP(w, r)
			return
		}
		if message == "" {
			writeJSON(w, status, map[string]string{})
			return
		}
		writeError(w, status, message)
	})
}

func (ts *TestServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": ts.Now.Format("2006-01-02T15:04:05.000000"),
		"database":  "connected",
	})
}

func (ts *TestServer) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	writeJSON(w, http.StatusOK, ts.projects)
}

func (ts *TestServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	p, ok := ts.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	results := ts.results[p.ID]
	if results == nil {
		results = []project.ValidationResult{}
	}
	writeJSON(w, http.StatusOK, project.Detail{Project: p, ValidationResults: results})
}

func (ts *TestServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !project.ValidateFileType(header.Filename) {
		writeError(w, http.StatusBadRequest, "File type not allowed. Please upload .ifc files only")
		return
	}
	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p := project.Project{
		ID:         uuid.NewString(),
		Name:       project.DisplayName(header.Filename),
		Filename:   header.Filename,
		FileSize:   project.MegabytesLabel(size),
		UploadDate: project.NewTimestamp(ts.Now),
		Status:     project.StatusProcessing,
	}

	ts.mu.Lock()
	ts.projects = append(ts.projects, p)
	ts.uploads = append(ts.uploads, Upload{Filename: header.Filename, Size: size})
	ts.mu.Unlock()

	writeJSON(w, http.StatusOK, project.UploadReceipt{
		Message:   "File uploaded successfully",
		ProjectID: p.ID,
		Filename:  header.Filename,
		FileSize:  size,
		Status:    string(p.Status),
	})
}

func (ts *TestServer) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	ts.mu.Lock()
	projects := slices.Clone(ts.projects)
	ts.mu.Unlock()

	var summary transport.Summary
	summary.TotalProjects = len(projects)
	var healthSum, issueSum int
	for _, p := range projects {
		if p.Status == project.StatusCompleted {
			summary.CompletedProjects++
			healthSum += p.HealthScore
			issueSum += p.Issues.Total()
		}
	}
	if summary.CompletedProjects > 0 {
		avg := float64(healthSum) / float64(summary.CompletedProjects)
		summary.AverageHealthScore = float64(int(avg*10+0.5)) / 10
	}
	summary.TotalIssuesResolved = issueSum

	slices.SortStableFunc(projects, func(a, b project.Project) int {
		return b.UploadDate.Compare(a.UploadDate.Time)
	})
	recent := make([]transport.RecentProject, 0, 5)
	for _, p := range projects[:min(5, len(projects))] {
		recent = append(recent, transport.RecentProject{
			ID: p.ID, Name: p.Name, HealthScore: float64(p.HealthScore), Status: p.Status, UploadDate: p.UploadDate,
		})
	}

	trend := make([]transport.TrendPoint, 0, 7)
	for i := range 7 {
		day := ts.Now.AddDate(0, 0, i-6)
		trend = append(trend, transport.TrendPoint{Date: day.Format("2006-01-02"), Score: 75 + float64(i), Projects: 1 + i%3})
	}

	writeJSON(w, http.StatusOK, transport.Dashboard{
		Summary:        summary,
		RecentProjects: recent,
		RecentActivity: []transport.Activity{
			{ID: "act-1", Timestamp: project.NewTimestamp(ts.Now.Add(-time.Hour)), User: "John Smith", Action: "resolved clash detection issue", Type: "resolution", Project: "Project 3"},
			{ID: "act-2", Timestamp: project.NewTimestamp(ts.Now.Add(-3 * time.Hour)), User: "Sarah Johnson", Action: "uploaded new model", Type: "upload", Project: "Project 7"},
		},
		HealthTrend: trend,
		IssueDistribution: []transport.IssueShare{
			{Type: "Clash Detection", Count: 20, Severity: project.SeverityCritical, Percentage: 40},
			{Type: "Missing Properties", Count: 20, Severity: project.SeverityWarning, Percentage: 40},
			{Type: "Naming Convention", Count: 10, Severity: project.SeverityInfo, Percentage: 20},
		},
	})
}

func (ts *TestServer) handleIssues(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	p, ok := ts.lookup(chi.URLParam(r, "projectID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	issues, ok := ts.issues[p.ID]
	if !ok {
		issues = generateIssues(p, ts.Now)
	}
	writeJSON(w, http.StatusOK, issues)
}

func (ts *TestServer) lookup(id string) (project.Project, bool) {
	for _, p := range ts.projects {
		if p.ID == id {
			return p, true
		}
	}
	return project.Project{}, false
}

// generateIssues derives one issue per counted severity so the list agrees
// with the project's issue counts.
func generateIssues(p project.Project, now time.Time) []transport.Issue {
	out := []transport.Issue{}
	add := func(sev project.Severity, kind string, n int) {
		for i := range n {
			out = append(out, transport.Issue{
				ID:          fmt.Sprintf("%s-%s-%d", p.ID, sev, i+1),
				ProjectID:   p.ID,
				Type:        kind,
				Severity:    sev,
				Description: kind + " detected",
				ElementID:   fmt.Sprintf("Element_%d", 1000+len(out)),
				ElementType: "IfcWall",
				Status:      "Open",
				AssignedTo:  "John Smith",
				Priority:    "Medium",
				CreatedDate: project.NewTimestamp(now.AddDate(0, 0, -(i + 1))),
				Location:    transport.Location{Story: "Level 1"},
				Details:     fmt.Sprintf("Detailed description of %s issue found in the model.", strings.ToLower(kind)),
				Comments:    []transport.Comment{},
			})
		}
	}
	add(project.SeverityCritical, "Clash Detection", p.Issues.Critical)
	add(project.SeverityWarning, "Missing Properties", p.Issues.Warning)
	add(project.SeverityInfo, "Naming Convention", p.Issues.Info)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
