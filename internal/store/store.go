package store

//go:generate mockgen -source=store.go -destination=mock_catalog_test.go -package=store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marco/cinelist/internal/catalog"
)

// Catalog is the part of the catalog client the store drives.
type Catalog interface {
	FetchByCategory(ctx context.Context, category catalog.Category, page int) (*catalog.MovieListResponse, error)
	Search(ctx context.Context, query string, page int) (*catalog.MovieListResponse, error)
	FetchFullDetails(ctx context.Context, movieID int) (*catalog.FullDetails, error)
}

// Listener is called with the state after every dispatched action.
type Listener func(State)

// Store owns one State and serialises every change to it. Construct one
// with New and pass it to whatever needs it.
type Store struct {
	catalog Catalog
	now     func() time.Time
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	seq       uint64
	listeners map[uint64]Listener
	nextID    uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for watchlist timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithState starts the store from st instead of Initial().
func WithState(st State) Option {
	return func(s *Store) { s.state = st }
}

// New returns a store backed by c.
func New(c Catalog, opts ...Option) *Store {
	s := &Store{
		catalog:   c,
		now:       time.Now,
		logger:    slog.Default(),
		state:     Initial(),
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and notifies listeners with the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(a)
}

// begin stamps a request action with the next sequence number and applies it.
func (s *Store) begin(build func(seq uint64) Action) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.applyLocked(build(s.seq))
	return s.seq
}

// applyLocked runs listeners while holding the lock, so they observe
// states in dispatch order. Listeners must not call back into the store.
func (s *Store) applyLocked(a Action) State {
	s.state = Reduce(s.state, a)
	for _, l := range s.listeners {
		l(s.state)
	}
	return s.state
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}
