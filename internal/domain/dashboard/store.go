package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/ganot/project-sentry/internal/domain/project"
)

// Options tunes the store. Zero values are replaced by DefaultOptions.
type Options struct {
	// TickInterval is the period of the cosmetic upload progress ticker.
	TickInterval time.Duration
	// MaxTickStep bounds each random ticker increment, in percent.
	MaxTickStep float64
	// FallbackEnabled installs the canned dataset when the remote source is
	// unavailable. When false such loads end empty.
	FallbackEnabled bool
	// MaskUploadFailures replaces a failed upload with a synthesized project.
	// When false the failure is returned to the caller.
	MaskUploadFailures bool
	Now                func() time.Time
	Rand               Random
}

// DefaultOptions returns the stock timings and policies.
func DefaultOptions() Options {
	return Options{
		TickInterval:       200 * time.Millisecond,
		MaxTickStep:        30,
		FallbackEnabled:    true,
		MaskUploadFailures: true,
		Now:                time.Now,
	}
}

// Store owns the application state. All mutation goes through its methods.
type Store struct {
	source ProjectSource
	logger *slog.Logger
	opts   Options

	mu         sync.RWMutex
	projects   []project.Project
	selectedID string
	view       View
	loading    bool

	randMu sync.Mutex
	rand   Random
}

// NewStore creates a store reading from source. A nil logger discards output.
func NewStore(source ProjectSource, logger *slog.Logger, opts Options) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	def := DefaultOptions()
	if opts.TickInterval <= 0 {
		opts.TickInterval = def.TickInterval
	}
	if opts.MaxTickStep <= 0 {
		opts.MaxTickStep = def.MaxTickStep
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5e17))
	}
	return &Store{
		source:   source,
		logger:   logger,
		opts:     opts,
		view:     ViewDashboard,
		loading:  true,
		projects: []project.Project{},
		rand:     rnd,
	}
}

// Start performs the initial load.
func (s *Store) Start(ctx context.Context) LoadResult {
	return s.LoadProjects(ctx)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Projects: slices.Clone(s.projects),
		View:     s.view,
		Loading:  s.loading,
	}
	if p, ok := s.lookupLocked(s.selectedID); ok {
		snap.Selected = &p
	}
	return snap
}

// Projects returns a copy of the collection in display order.
func (s *Store) Projects() []project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects)
}

// Selected returns the selected project, if any.
func (s *Store) Selected() (project.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(s.selectedID)
}

// CurrentView returns the active view identifier as set.
func (s *Store) CurrentView() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Loading reports whether a load or upload is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SelectProject selects the project with the given id. An empty id clears
// the selection.
func (s *Store) SelectProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.selectedID = ""
		return nil
	}
	if _, ok := s.lookupLocked(id); !ok {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	s.selectedID = id
	return nil
}

// SetView switches the active view. Unknown identifiers are stored as given
// and resolve to the dashboard.
func (s *Store) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// Props resolves the current view against the current state, with actions
// bound to this store.
func (s *Store) Props() ViewProps {
	snap := s.Snapshot()
	return ResolveView(snap.View, snap, Actions{
		SelectProject: s.SelectProject,
		Upload:        s.UploadFile,
		UploadSuccess: func() { s.SetView(ViewDashboard) },
	})
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *Store) lookupLocked(id string) (project.Project, bool) {
	if id == "" {
		return project.Project{}, false
	}
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return project.Project{}, false
}

func (s *Store) randIntN(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.IntN(n)
}

func (s *Store) randFloat() float64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.Float64()
}
