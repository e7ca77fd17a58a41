package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/ganot/project-sentry/internal/repository"
	"github.com/ganot/project-sentry/internal/repository/mocks"
	"github.com/ganot/project-sentry/internal/transport"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errNetwork = fmt.Errorf("Network error - please check your connection: %w", repository.ErrUnavailable)

func TestLoadProjects_Live(t *testing.T) {
	ctx := context.Background()
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(sampleProjects(), nil)

	store := dashboard.NewStore(src, nil, testOptions())
	res := store.LoadProjects(ctx)

	require.Equal(t, dashboard.OutcomeLive, res.Outcome)
	require.Equal(t, 2, res.Count)
	require.NoError(t, res.Err)

	snap := store.Snapshot()
	require.False(t, snap.Loading)
	require.Len(t, snap.Projects, 2)
	require.Equal(t, "p1", snap.Selected.ID)
}

func TestLoadProjects_KeepsSelectionAcrossReload(t *testing.T) {
	ctx := context.Background()
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(sampleProjects(), nil).Once()

	store := dashboard.NewStore(src, nil, testOptions())
	store.LoadProjects(ctx)
	require.NoError(t, store.SelectProject("p2"))

	reordered := []project.Project{sampleProjects()[1], sampleProjects()[0]}
	src.On("ListProjects", mock.Anything).Return(reordered, nil).Once()
	store.LoadProjects(ctx)

	sel, ok := store.Selected()
	require.True(t, ok)
	require.Equal(t, "p2", sel.ID)

	src.On("ListProjects", mock.Anything).Return([]project.Project{{ID: "p9", Name: "New"}}, nil).Once()
	store.LoadProjects(ctx)
	sel, ok = store.Selected()
	require.True(t, ok)
	require.Equal(t, "p9", sel.ID)
}

func TestLoadProjects_EmptyRemoteCollection(t *testing.T) {
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return([]project.Project{}, nil)

	store := dashboard.NewStore(src, nil, testOptions())
	res := store.LoadProjects(context.Background())

	require.Equal(t, dashboard.OutcomeLive, res.Outcome)
	snap := store.Snapshot()
	require.Empty(t, snap.Projects)
	require.Nil(t, snap.Selected)
	require.False(t, snap.Loading)
}

func TestLoadProjects_FallbackOnTransportFailure(t *testing.T) {
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(nil, errNetwork)

	store := dashboard.NewStore(src, nil, testOptions())
	res := store.LoadProjects(context.Background())

	require.Equal(t, dashboard.OutcomeFallback, res.Outcome)
	require.ErrorIs(t, res.Err, repository.ErrUnavailable)

	snap := store.Snapshot()
	require.False(t, snap.Loading)
	require.Len(t, snap.Projects, 2)
	require.NotNil(t, snap.Selected)
	require.Equal(t, "sample-1", snap.Selected.ID)

	require.Equal(t, "Good", snap.Projects[0].Band().Label)
	require.Equal(t, "Fair", snap.Projects[1].Band().Label)
	require.True(t, snap.Projects[0].UploadDate.Equal(fixedNow))
	require.True(t, snap.Projects[1].UploadDate.Before(fixedNow))
}

func TestLoadProjects_FallbackDisabled(t *testing.T) {
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(nil, errNetwork)

	opts := testOptions()
	opts.FallbackEnabled = false
	store := dashboard.NewStore(src, nil, opts)
	res := store.LoadProjects(context.Background())

	require.Equal(t, dashboard.OutcomeEmpty, res.Outcome)
	require.Empty(t, store.Projects())
	require.False(t, store.Loading())
}

func TestLoadProjects_UnexpectedFailureEmpties(t *testing.T) {
	ctx := context.Background()
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(sampleProjects(), nil).Once()
	src.On("ListProjects", mock.Anything).Return(nil, errors.New("decoder exploded")).Once()

	store := dashboard.NewStore(src, nil, testOptions())
	store.LoadProjects(ctx)
	res := store.LoadProjects(ctx)

	require.Equal(t, dashboard.OutcomeEmpty, res.Outcome)
	require.Error(t, res.Err)
	snap := store.Snapshot()
	require.Empty(t, snap.Projects)
	require.Nil(t, snap.Selected)
	require.False(t, snap.Loading)
}

func TestLoadProjects_InvalidRecordsEmpty(t *testing.T) {
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return([]project.Project{{Name: "no id"}}, nil)

	store := dashboard.NewStore(src, nil, testOptions())
	res := store.LoadProjects(context.Background())

	require.Equal(t, dashboard.OutcomeEmpty, res.Outcome)
	require.ErrorIs(t, res.Err, project.ErrInvalidProject)
}

type panicSource struct{}

func (panicSource) ListProjects(context.Context) ([]project.Project, error) {
	panic("source bug")
}

func (panicSource) Upload(context.Context, string, io.Reader, int64, func(int)) (project.UploadReceipt, error) {
	return project.UploadReceipt{}, nil
}

func TestLoadProjects_PanicIsAbsorbed(t *testing.T) {
	store := dashboard.NewStore(panicSource{}, nil, testOptions())

	var res dashboard.LoadResult
	require.NotPanics(t, func() { res = store.LoadProjects(context.Background()) })
	require.Equal(t, dashboard.OutcomeEmpty, res.Outcome)
	require.False(t, store.Loading())
}

func TestLoadProjects_ConcurrentCallsConverge(t *testing.T) {
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(sampleProjects(), nil)

	store := dashboard.NewStore(src, nil, testOptions())

	var wg sync.WaitGroup
	results := make([]dashboard.LoadResult, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.LoadProjects(context.Background())
		}(i)
	}
	wg.Wait()

	require.Equal(t, dashboard.OutcomeLive, results[0].Outcome)
	require.Equal(t, dashboard.OutcomeLive, results[1].Outcome)
	require.Equal(t, sampleProjects(), store.Projects())
	require.False(t, store.Loading())
	src.AssertNumberOfCalls(t, "ListProjects", 2)
}

func TestLoadProjects_FractionalScoreKeepsCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a","name":"Annex","health_score":85.3,"status":"Completed",` +
			`"total_elements":900,"validated_elements":800}]`))
	}))
	t.Cleanup(srv.Close)

	store := dashboard.NewStore(transport.NewClient(srv.URL, time.Second, nil), nil, testOptions())
	res := store.LoadProjects(context.Background())

	require.Equal(t, dashboard.OutcomeLive, res.Outcome)
	require.Equal(t, 1, res.Count)
	projects := store.Projects()
	require.Len(t, projects, 1)
	require.Equal(t, 85, projects[0].HealthScore)
	require.Equal(t, "Good", projects[0].Band().Label)
}
