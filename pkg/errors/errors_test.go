// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "dataset_not_found",
			code:    errors.ErrDatasetNotFound,
			message: "dataset missing",
			wantStr: "[DATASET_NOT_FOUND] dataset missing",
		},
		{
			name:    "invalid_input",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrConfigValid, "unknown backend %q", "redis")
	assert.Equal(t, `[CONFIG_INVALID] unknown backend "redis"`, err.Error())
}

func TestWrap(t *testing.T) {
	base := stderrors.New("disk full")

	err := errors.Wrap(base, errors.ErrDatasetCreate, "create dataset")
	require.Error(t, err)
	assert.Equal(t, "[DATASET_CREATE] create dataset: disk full", err.Error())
	assert.ErrorIs(t, err, base)

	assert.Nil(t, errors.Wrap(nil, errors.ErrDatasetCreate, "create dataset"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrDatasetCreate, "create %s", "x"))
}

func TestIsErrorCode(t *testing.T) {
	inner := errors.New(errors.ErrDatasetNotFound, "gone")
	outer := errors.Wrap(inner, errors.ErrFixtureTeardown, "delete fixture dataset")

	assert.True(t, errors.IsErrorCode(outer, errors.ErrFixtureTeardown))
	assert.True(t, errors.IsErrorCode(outer, errors.ErrDatasetNotFound))
	assert.False(t, errors.IsErrorCode(outer, errors.ErrFixtureSetup))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrUnknown))
}

func TestIsErrorCode_JoinedTree(t *testing.T) {
	body := stderrors.New("boom")
	teardown := errors.Wrap(stderrors.New("locked"), errors.ErrFixtureTeardown, "delete")

	joined := stderrors.Join(body, teardown)

	assert.True(t, errors.IsErrorCode(joined, errors.ErrFixtureTeardown))
	assert.ErrorIs(t, joined, body)
}

func TestGetErrorCodeAndDetails(t *testing.T) {
	err := errors.New(errors.ErrStoreOpen, "open").WithDetail("path", "/tmp/x.db")

	assert.Equal(t, errors.ErrStoreOpen, errors.GetErrorCode(err))
	assert.Equal(t, "/tmp/x.db", errors.GetErrorDetails(err)["path"])

	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}
