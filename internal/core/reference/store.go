package reference

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Store hands out the current reference Set. A reload swaps in a new Set;
// a Set already handed out is never changed.
type Store struct {
	source  Source
	current atomic.Pointer[Set]
	loaded  atomic.Int64 // unix nanos of the last successful load
}

func NewStore(source Source) *Store {
	s := &Store{source: source}
	s.current.Store(NewSet(nil))
	return s
}

// Load reads the source and replaces the snapshot. On error the previous
// snapshot stays in place.
func (s *Store) Load(ctx context.Context) error {
	names, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("reference source %s: %w", s.source.GetSourceName(), err)
	}

	set := NewSet(names)
	s.current.Store(set)
	s.loaded.Store(time.Now().UnixNano())

	log.Info().
		Str("source", s.source.GetSourceName()).
		Int("names", set.Len()).
		Msg("reference names loaded")
	return nil
}

// Current returns the snapshot to use for one request.
func (s *Store) Current() *Set {
	return s.current.Load()
}

// LoadedAt is the time of the last successful load, zero if none.
func (s *Store) LoadedAt() time.Time {
	n := s.loaded.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func (s *Store) SourceName() string {
	return s.source.GetSourceName()
}

// Refresher reloads a Store on a cron schedule.
type Refresher struct {
	cron    *cron.Cron
	store   *Store
	timeout time.Duration
}

// NewRefresher builds a refresher. schedule accepts a seconds field
// ("0 */15 * * * *") as well as descriptors like "@every 10m".
func NewRefresher(store *Store, schedule string, timeout time.Duration) (*Refresher, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := &Refresher{
		cron:    cron.New(cron.WithSeconds()),
		store:   store,
		timeout: timeout,
	}
	if _, err := r.cron.AddFunc(schedule, r.refresh); err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}
	return r, nil
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.store.Load(ctx); err != nil {
		log.Error().Err(err).Msg("reference refresh failed, keeping previous names")
	}
}

// Start starts the scheduler
func (r *Refresher) Start() {
	log.Info().Msg("starting reference refresher")
	r.cron.Start()
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	log.Info().Msg("reference refresher stopped")
}
