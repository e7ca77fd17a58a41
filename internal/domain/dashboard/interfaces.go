package dashboard

import (
	"context"
	"io"

	"github.com/ganot/project-sentry/internal/domain/project"
)

// ProjectSource provides the remote project collection and upload endpoint.
type ProjectSource interface {
	ListProjects(ctx context.Context) ([]project.Project, error)
	Upload(ctx context.Context, name string, body io.Reader, size int64, onProgress func(int)) (project.UploadReceipt, error)
}

// Random supplies the jitter used by the progress ticker and by synthesized
// projects. *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}
