package mocks

import (
	"context"
	"io"

	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectSource is a mock for dashboard.ProjectSource. Progress values are
// forwarded to the upload callback while the body is drained.
type ProjectSource struct {
	mock.Mock
	Progress []int
}

func (m *ProjectSource) ListProjects(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Upload drains body so progress readers see the whole payload, reports
// Progress, then returns the configured receipt.
func (m *ProjectSource) Upload(ctx context.Context, name string, body io.Reader, size int64, onProgress func(int)) (project.UploadReceipt, error) {
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	if onProgress != nil {
		for _, pct := range m.Progress {
			onProgress(pct)
		}
	}
	args := m.Called(ctx, name, size)
	receipt, _ := args.Get(0).(project.UploadReceipt)
	return receipt, args.Error(1)
}
