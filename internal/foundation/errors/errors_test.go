package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Error_IncludesCategoryAndSeverity(t *testing.T) {
	err := KeywordError("missing keyword").Build()
	require.Equal(t, "[keyword:error] missing keyword", err.Error())
}

func TestClassifiedError_Error_IncludesCause(t *testing.T) {
	cause := fmt.Errorf("open failed")
	err := StoreError("could not load record").WithCause(cause).Build()
	require.Contains(t, err.Error(), "could not load record")
	require.Contains(t, err.Error(), "open failed")
	require.ErrorIs(t, err, err)
	require.Equal(t, cause, errors.Unwrap(err))
}

func TestClassifiedError_WithContext_DoesNotMutateOriginal(t *testing.T) {
	base := NotFoundError("no such file").Build()
	derived := base.WithContext("path", "/data/v1/test-123.fits")

	_, ok := base.Context().Get("path")
	require.False(t, ok)

	path, ok := derived.Context().GetString("path")
	require.True(t, ok)
	require.Equal(t, "/data/v1/test-123.fits", path)
}

func TestHasCategory_MatchesClassifiedErrors(t *testing.T) {
	err := ReleaseError("unknown release").Build()
	require.True(t, HasCategory(err, CategoryRelease))
	require.False(t, HasCategory(err, CategoryRecord))
	require.False(t, HasCategory(fmt.Errorf("plain"), CategoryRelease))
}

func TestGetCategory_FallsBackToInternal(t *testing.T) {
	require.Equal(t, CategoryInternal, GetCategory(fmt.Errorf("plain")))
	require.Equal(t, CategoryStructure, GetCategory(StructureError("bad magic").Build()))
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	cases := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{KeywordError("k").Build(), 2},
		{NotFoundError("n").Build(), 3},
		{StructureError("s").Build(), 4},
		{RecordError("r").Build(), 5},
		{ReleaseError("r").Build(), 6},
		{ConfigError("c").Build(), 7},
		{RenderError("r").Build(), 11},
		{StoreError("s").Build(), 12},
		{InternalError("i").Build(), 10},
		{fmt.Errorf("plain"), 1},
	}
	for _, tc := range cases {
		require.Equal(t, tc.code, adapter.ExitCodeFor(tc.err))
	}
}

func TestCLIErrorAdapter_FormatError_Verbose(t *testing.T) {
	err := ConfigError("bad config").Build()

	terse := NewCLIErrorAdapter(false, nil).FormatError(err)
	require.Equal(t, "Error: bad config", terse)

	verbose := NewCLIErrorAdapter(true, nil).FormatError(err)
	require.Equal(t, err.Error(), verbose)
}
