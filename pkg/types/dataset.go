package types

import (
	"context"
	"time"
)

// Dataset is a named, store-managed record. Name is assigned by the store
// and is unique within it.
type Dataset struct {
	Name       string    `json:"name" yaml:"name"`
	Persistent bool      `json:"persistent" yaml:"persistent"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Store is the slice of the dataset store that fixture wrappers depend on.
type Store interface {
	// DeleteNonPersistent removes every dataset whose persistence flag is
	// false. Calling it on a store with nothing to remove is not an error.
	DeleteNonPersistent(ctx context.Context) error

	// Create returns a new dataset with a fresh name and Persistent=false.
	Create(ctx context.Context) (*Dataset, error)

	// SetPersistent updates the flag in the store and on ds.
	SetPersistent(ctx context.Context, ds *Dataset, persistent bool) error

	// Delete removes ds and its samples. Deleting a dataset the store does
	// not know returns an error coded DATASET_NOT_FOUND.
	Delete(ctx context.Context, ds *Dataset) error
}

// Catalog is a complete dataset store: the fixture-facing Store plus the
// queries and sample bookkeeping used by the CLI and by tests.
type Catalog interface {
	Store

	// List returns all datasets ordered by creation time, then name.
	List(ctx context.Context) ([]Dataset, error)

	// Purge deletes every non-persistent dataset like DeleteNonPersistent
	// and reports how many it removed.
	Purge(ctx context.Context) (int, error)

	// Get looks a dataset up by name.
	Get(ctx context.Context, name string) (*Dataset, error)

	// AddSample attaches a sample file path to ds.
	AddSample(ctx context.Context, ds *Dataset, filepath string) error

	// CountSamples returns how many samples belong to ds.
	CountSamples(ctx context.Context, ds *Dataset) (int, error)

	Close() error
}

// FilterDatasets returns the datasets whose persistence flag equals persistent.
func FilterDatasets(datasets []Dataset, persistent bool) []Dataset {
	out := make([]Dataset, 0, len(datasets))
	for _, ds := range datasets {
		if ds.Persistent == persistent {
			out = append(out, ds)
		}
	}
	return out
}
