package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/google/uuid"
)

// UploadFile sends file to the remote source while a cosmetic ticker feeds
// onProgress. The ticker is stopped as soon as the real call settles.
//
// On success the collection is reloaded and the dashboard shown. On failure,
// unless MaskUploadFailures is off, a project is synthesized from the file
// metadata, prepended and selected, and a success-shaped result with
// Synthesized set is returned. Only setup errors and caller cancellation are
// returned as errors in the masking mode.
func (s *Store) UploadFile(ctx context.Context, file File, onProgress func(int)) (UploadResult, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	if strings.TrimSpace(file.Name) == "" || file.Body == nil || file.Size < 0 {
		return UploadResult{}, fmt.Errorf("%w: file name, size and body are required", ErrInvalidUpload)
	}

	uploadID := UploadIDFrom(ctx)
	if uploadID == "" {
		uploadID = uuid.NewString()
	}
	logger := s.logger.With("upload_id", uploadID, "file", file.Name)
	logger.Debug("upload started", "size", file.Size)

	reporter := newProgressReporter(onProgress)
	ticker := startTicker(s.opts.TickInterval, s.opts.MaxTickStep, s.randFloat, reporter.tick)
	defer ticker.Stop()

	receipt, err := s.source.Upload(ctx, file.Name, file.Body, file.Size, reporter.report)
	ticker.Stop()
	reporter.finish()

	if err == nil {
		s.load(ctx)
		s.SetView(ViewDashboard)
		logger.Info("upload complete", "project_id", receipt.ProjectID)
		return UploadResult{Message: receipt.Message, ProjectID: receipt.ProjectID}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return UploadResult{}, fmt.Errorf("uploading %s: %w", file.Name, err)
	}
	if !s.opts.MaskUploadFailures {
		logger.Error("upload failed", "error", err)
		return UploadResult{}, fmt.Errorf("uploading %s: %w", file.Name, err)
	}

	p := s.synthesize(file)
	s.prependAndSelect(p)
	logger.Warn("upload failed, synthesized demo project", "project_id", p.ID, "error", err)

	return UploadResult{
		Message:     DemoUploadMessage,
		ProjectID:   p.ID,
		Synthesized: true,
		Project:     &p,
		Cause:       err,
	}, nil
}

type uploadIDKey struct{}

// WithUploadID attaches a correlation id that UploadFile logs instead of
// generating its own.
func WithUploadID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, uploadIDKey{}, id)
}

// UploadIDFrom returns the id set by WithUploadID, or "".
func UploadIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(uploadIDKey{}).(string)
	return id
}

// synthesize fabricates a project from upload metadata with illustrative
// metrics: health 60-89, 5000-14999 elements, 4000-4999 validated.
func (s *Store) synthesize(file File) project.Project {
	p := project.Project{
		ID:                "demo-" + uuid.NewString(),
		Name:              project.DisplayName(file.Name),
		Filename:          file.Name,
		FileSize:          project.MegabytesLabel(file.Size),
		UploadDate:        project.NewTimestamp(s.opts.Now().UTC()),
		HealthScore:       60 + s.randIntN(30),
		Status:            project.StatusCompleted,
		TotalElements:     5000 + s.randIntN(10000),
		ValidatedElements: 4000 + s.randIntN(1000),
		Issues: project.IssueCounts{
			Critical: s.randIntN(10),
			Warning:  10 + s.randIntN(50),
			Info:     5 + s.randIntN(20),
		},
	}
	np, err := project.Normalize(p)
	if err != nil {
		return p
	}
	return np
}

func (s *Store) prependAndSelect(p project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]project.Project, 0, len(s.projects)+1)
	next = append(next, p)
	for _, existing := range s.projects {
		if existing.ID != p.ID {
			next = append(next, existing)
		}
	}
	s.projects = next
	s.selectedID = p.ID
	s.view = ViewDashboard
}
