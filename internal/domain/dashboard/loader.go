package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/ganot/project-sentry/internal/repository"
)

// LoadProjects replaces the collection from the remote source. It never
// fails: transport and server errors install the canned dataset (when
// FallbackEnabled), anything else leaves an empty collection. Loading is
// set for the duration of the call.
//
// Concurrent calls are not serialized; the last one to finish wins.
func (s *Store) LoadProjects(ctx context.Context) LoadResult {
	s.setLoading(true)
	defer s.setLoading(false)
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (res LoadResult) {
	defer func() {
		if r := recover(); r != nil {
			res = s.installEmpty(fmt.Errorf("%w: panic: %v", errUnexpected, r))
		}
	}()

	fetched, err := s.source.ListProjects(ctx)
	if err == nil {
		projects, dropped, nerr := project.NormalizeAll(fetched)
		if nerr != nil {
			return s.installEmpty(fmt.Errorf("%w: %w", errUnexpected, nerr))
		}
		if len(dropped) > 0 {
			s.logger.Warn("dropped duplicate projects", "ids", dropped)
		}
		s.installLive(projects)
		s.logger.Info("projects loaded", "outcome", OutcomeLive, "count", len(projects))
		return LoadResult{Outcome: OutcomeLive, Count: len(projects)}
	}

	if errors.Is(err, repository.ErrUnavailable) && s.opts.FallbackEnabled {
		canned := CannedProjects(s.opts.Now())
		s.installFallback(canned)
		s.logger.Warn("project API unavailable, using sample data", "error", err, "count", len(canned))
		return LoadResult{Outcome: OutcomeFallback, Count: len(canned), Err: err}
	}

	return s.installEmpty(err)
}

// installLive replaces the collection, keeping the selection when it is
// still present and otherwise defaulting to the first project.
func (s *Store) installLive(projects []project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = projects
	if _, ok := s.lookupLocked(s.selectedID); !ok {
		s.selectedID = ""
	}
	if s.selectedID == "" && len(projects) > 0 {
		s.selectedID = projects[0].ID
	}
}

func (s *Store) installFallback(projects []project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = projects
	s.selectedID = projects[0].ID
}

func (s *Store) installEmpty(cause error) LoadResult {
	s.mu.Lock()
	s.projects = []project.Project{}
	s.selectedID = ""
	s.mu.Unlock()

	s.logger.Error("error loading projects", "outcome", OutcomeEmpty, "error", cause)
	return LoadResult{Outcome: OutcomeEmpty, Err: cause}
}

// CannedProjects returns the two-record sample dataset shown when the API is
// unreachable. Upload dates are relative to now.
func CannedProjects(now time.Time) []project.Project {
	canned := []project.Project{
		{
			ID:                "sample-1",
			Name:              "Office Building Phase 2",
			Filename:          "office_building_v2.ifc",
			FileSize:          "125.6 MB",
			UploadDate:        project.NewTimestamp(now.UTC()),
			HealthScore:       85,
			Status:            project.StatusCompleted,
			TotalElements:     15420,
			ValidatedElements: 13847,
			Issues:            project.IssueCounts{Critical: 5, Warning: 23, Info: 12},
		},
		{
			ID:                "sample-2",
			Name:              "Residential Complex A",
			Filename:          "residential_complex_a.ifc",
			FileSize:          "89.3 MB",
			UploadDate:        project.NewTimestamp(now.Add(-24 * time.Hour).UTC()),
			HealthScore:       72,
			Status:            project.StatusCompleted,
			TotalElements:     8934,
			ValidatedElements: 7856,
			Issues:            project.IssueCounts{Critical: 12, Warning: 45, Info: 28},
		},
	}
	out, _, _ := project.NormalizeAll(canned)
	return out
}
