package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/project-sentry/internal/domain/dashboard"
	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/ganot/project-sentry/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fixedRand returns the same jitter every call.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

func testOptions() dashboard.Options {
	opts := dashboard.DefaultOptions()
	opts.TickInterval = 5 * time.Millisecond
	opts.Now = func() time.Time { return fixedNow }
	opts.Rand = fixedRand{f: 0.5, n: 3}
	return opts
}

func sampleProjects() []project.Project {
	return []project.Project{
		{ID: "p1", Name: "Hospital Wing", Filename: "hospital.ifc", HealthScore: 91, Status: project.StatusCompleted},
		{ID: "p2", Name: "Parking Deck", Filename: "parking.ifc", HealthScore: 64, Status: project.StatusProcessing},
	}
}

func TestStore_InitialState(t *testing.T) {
	store := dashboard.NewStore(&mocks.ProjectSource{}, nil, testOptions())

	snap := store.Snapshot()
	require.Empty(t, snap.Projects)
	require.Nil(t, snap.Selected)
	require.Equal(t, dashboard.ViewDashboard, snap.View)
	require.True(t, snap.Loading)
	require.True(t, snap.ShowSplash())
}

func TestStore_SelectProject(t *testing.T) {
	ctx := context.Background()
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(sampleProjects(), nil)

	store := dashboard.NewStore(src, nil, testOptions())
	store.Start(ctx)

	require.NoError(t, store.SelectProject("p2"))
	sel, ok := store.Selected()
	require.True(t, ok)
	require.Equal(t, "Parking Deck", sel.Name)

	err := store.SelectProject("missing")
	require.ErrorIs(t, err, dashboard.ErrProjectNotFound)
	sel, _ = store.Selected()
	require.Equal(t, "p2", sel.ID)

	require.NoError(t, store.SelectProject(""))
	_, ok = store.Selected()
	require.False(t, ok)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(sampleProjects(), nil)

	store := dashboard.NewStore(src, nil, testOptions())
	store.Start(ctx)

	snap := store.Snapshot()
	snap.Projects[0].Name = "mutated"
	snap.Selected.Name = "mutated"

	require.Equal(t, "Hospital Wing", store.Projects()[0].Name)
	sel, _ := store.Selected()
	require.Equal(t, "Hospital Wing", sel.Name)
}

func TestStore_PropsFollowView(t *testing.T) {
	ctx := context.Background()
	src := &mocks.ProjectSource{}
	src.On("ListProjects", mock.Anything).Return(sampleProjects(), nil)

	store := dashboard.NewStore(src, nil, testOptions())
	store.Start(ctx)

	store.SetView(dashboard.ViewViewer)
	props := store.Props()
	require.Equal(t, dashboard.ComponentModelViewer, props.Component)
	require.Equal(t, "p1", props.Project.ID)
	require.Nil(t, props.Projects)

	store.SetView(dashboard.ViewUpload)
	props = store.Props()
	require.NotNil(t, props.OnSuccess)
	props.OnSuccess()
	require.Equal(t, dashboard.ViewDashboard, store.CurrentView())

	props = store.Props()
	require.NoError(t, props.OnProjectSelect("p2"))
	sel, _ := store.Selected()
	require.Equal(t, "p2", sel.ID)
}
