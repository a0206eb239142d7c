package datastore

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/google/uuid"
)

// DefaultPrefix is prepended to generated dataset names.
const DefaultPrefix = "dataset"

// Options tune how a store names and timestamps new datasets.
type Options struct {
	// Prefix is the first segment of generated names.
	Prefix string

	// NewID returns the unique part of a generated name.
	NewID func() string

	// Now returns the creation timestamp.
	Now func() time.Time
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if strings.TrimSpace(o.Prefix) == "" {
		o.Prefix = DefaultPrefix
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// NewName builds a dataset name from a prefix and a unique id.
func NewName(prefix, id string) string {
	return fmt.Sprintf("%s-%s", prefix, id)
}

// NextName generates a name using o.
func (o Options) NextName() string {
	return NewName(o.Prefix, o.NewID())
}

// RequireDataset rejects nil or unnamed datasets before they reach a backend.
func RequireDataset(ds *types.Dataset) error {
	if ds == nil {
		return errors.New(errors.ErrInvalidInput, "dataset is required")
	}
	if strings.TrimSpace(ds.Name) == "" {
		return errors.New(errors.ErrInvalidInput, "dataset name is required")
	}
	return nil
}

// NotFound returns the DATASET_NOT_FOUND error for name.
func NotFound(name string) error {
	return errors.Newf(errors.ErrDatasetNotFound, "dataset %q not found", name).
		WithDetail("dataset", name)
}
