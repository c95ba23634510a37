package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAssignsIDAndTimestamp(t *testing.T) {
	e := New(KindValidation, "parse_campaign", "missing field")
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, KindValidation, e.Kind)
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	e := IOFailed("write_output", "could not write bundle", cause)

	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "disk full")
}

func TestWithContextChains(t *testing.T) {
	e := AssetFailed("fetch", AssetNotFound, "https://example.com/x.png", nil)
	assert.Equal(t, "https://example.com/x.png", e.Context["source_ref"])
	assert.Equal(t, string(AssetNotFound), e.Context["asset_error_kind"])
}

func TestExitCodePerKind(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindIO, 10},
		{KindValidation, 12},
		{KindCancelled, 130},
	}
	for _, tc := range cases {
		e := New(tc.kind, "op", "msg")
		assert.Equal(t, tc.want, e.ExitCode())
	}
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(Cancelled("process_assets")))
	assert.False(t, IsCancelled(errors.New("other")))
	assert.False(t, IsCancelled(nil))
}

func TestRetryableOnlyForAssets(t *testing.T) {
	assert.True(t, AssetFailed("fetch", AssetNetworkError, "x", nil).Retryable())
	assert.False(t, New(KindParse, "parse", "bad json").Retryable())
}
