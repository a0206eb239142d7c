package datastore

import (
	"context"
	"sort"
	"sync"

	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/logging"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/rs/zerolog"
)

// Operation names accepted by MemoryStore.FailOn.
const (
	OpCreate        = "create"
	OpSetPersistent = "set_persistent"
	OpDelete        = "delete"
	OpPurge         = "purge"
	OpList          = "list"
)

// MemoryStore is a goroutine-safe in-memory Catalog.
type MemoryStore struct {
	mu       sync.RWMutex
	opts     Options
	datasets map[string]types.Dataset
	samples  map[string][]string
	closed   bool
	log      zerolog.Logger

	// Error injection
	failures map[string]error
}

var _ types.Catalog = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory(opts Options) *MemoryStore {
	return &MemoryStore{
		opts:     opts.WithDefaults(),
		datasets: make(map[string]types.Dataset),
		samples:  make(map[string][]string),
		failures: make(map[string]error),
		log:      logging.GetLogger("datastore.memory"),
	}
}

// FailOn makes every later call of op return err. A nil err clears it.
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// check must be called with s.mu held.
func (s *MemoryStore) check(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return errors.New(errors.ErrStoreOpen, "store is closed")
	}
	return s.failures[op]
}

func (s *MemoryStore) DeleteNonPersistent(ctx context.Context) error {
	_, err := s.Purge(ctx)
	return err
}

func (s *MemoryStore) Purge(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, OpPurge); err != nil {
		return 0, errors.Wrap(err, errors.ErrDatasetPurge, "delete non-persistent datasets")
	}

	removed := 0
	for name, ds := range s.datasets {
		if ds.Persistent {
			continue
		}
		delete(s.datasets, name)
		delete(s.samples, name)
		removed++
	}
	s.log.Debug().Int("removed", removed).Msg("Purged non-persistent datasets")
	return removed, nil
}

func (s *MemoryStore) Create(ctx context.Context) (*types.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, OpCreate); err != nil {
		return nil, errors.Wrap(err, errors.ErrDatasetCreate, "create dataset")
	}

	name := s.opts.NextName()
	for _, taken := s.datasets[name]; taken; _, taken = s.datasets[name] {
		name = s.opts.NextName()
	}
	ds := types.Dataset{Name: name, CreatedAt: s.opts.Now()}
	s.datasets[name] = ds
	s.log.Debug().Str("dataset", name).Msg("Created dataset")

	out := ds
	return &out, nil
}

func (s *MemoryStore) SetPersistent(ctx context.Context, ds *types.Dataset, persistent bool) error {
	if err := RequireDataset(ds); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, OpSetPersistent); err != nil {
		return errors.Wrapf(err, errors.ErrDatasetUpdate, "set persistent on %s", ds.Name)
	}

	stored, ok := s.datasets[ds.Name]
	if !ok {
		return NotFound(ds.Name)
	}
	stored.Persistent = persistent
	s.datasets[ds.Name] = stored
	ds.Persistent = persistent
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, ds *types.Dataset) error {
	if err := RequireDataset(ds); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, OpDelete); err != nil {
		return errors.Wrapf(err, errors.ErrDatasetDelete, "delete %s", ds.Name)
	}

	if _, ok := s.datasets[ds.Name]; !ok {
		return NotFound(ds.Name)
	}
	delete(s.datasets, ds.Name)
	delete(s.samples, ds.Name)
	s.log.Debug().Str("dataset", ds.Name).Msg("Deleted dataset")
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]types.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, OpList); err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "list datasets")
	}

	out := make([]types.Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	SortDatasets(out)
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*types.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, OpList); err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "get dataset")
	}

	ds, ok := s.datasets[name]
	if !ok {
		return nil, NotFound(name)
	}
	return &ds, nil
}

func (s *MemoryStore) AddSample(ctx context.Context, ds *types.Dataset, filepath string) error {
	if err := RequireDataset(ds); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, ""); err != nil {
		return err
	}
	if _, ok := s.datasets[ds.Name]; !ok {
		return NotFound(ds.Name)
	}
	s.samples[ds.Name] = append(s.samples[ds.Name], filepath)
	return nil
}

func (s *MemoryStore) CountSamples(ctx context.Context, ds *types.Dataset) (int, error) {
	if err := RequireDataset(ds); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, ""); err != nil {
		return 0, err
	}
	if _, ok := s.datasets[ds.Name]; !ok {
		return 0, NotFound(ds.Name)
	}
	return len(s.samples[ds.Name]), nil
}

// Close marks the store closed; later calls fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// SortDatasets orders datasets by creation time, then name.
func SortDatasets(datasets []types.Dataset) {
	sort.Slice(datasets, func(i, j int) bool {
		if !datasets[i].CreatedAt.Equal(datasets[j].CreatedAt) {
			return datasets[i].CreatedAt.Before(datasets[j].CreatedAt)
		}
		return datasets[i].Name < datasets[j].Name
	})
}
