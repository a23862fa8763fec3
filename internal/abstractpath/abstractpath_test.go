package abstractpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
)

func TestResolve_SubstitutesAllPlaceholders(t *testing.T) {
	t.Setenv("TEST_REDUX", "/data")

	path, err := Resolve("$TEST_REDUX/{version}/test-{id}.fits", map[string]string{
		"version": "v1",
		"id":      "123",
	})
	require.NoError(t, err)
	require.Equal(t, "/data/v1/test-123.fits", path)
	require.NotContains(t, path, "{")
}

func TestResolve_MissingKeywordFails(t *testing.T) {
	_, err := Resolve("$TEST_REDUX/{version}/test-{id}.fits", map[string]string{
		"version": "v1",
	})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryKeyword))

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	name, _ := classified.Context().GetString("keyword")
	require.Equal(t, "id", name)
}

func TestResolve_ExtraKeywordsIgnored(t *testing.T) {
	path, err := Resolve("spectra/{id}.fits", map[string]string{
		"id":     "abc",
		"unused": "whatever",
	})
	require.NoError(t, err)
	require.Equal(t, "spectra/abc.fits", path)
}

func TestResolve_UnsetSymbolicRootKeptLiteral(t *testing.T) {
	path, err := Resolve("$DEFINITELY_NOT_SET_ANYWHERE/{v}/f.fits", map[string]string{"v": "v1"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, "$DEFINITELY_NOT_SET_ANYWHERE/"))
}

func TestResolve_NoPlaceholdersRemain(t *testing.T) {
	templates := []string{
		"{a}/{b}/{c}.fits",
		"$ROOT/{a}-{b}.fits",
		"plain/path.fits",
	}
	keys := map[string]string{"a": "1", "b": "2", "c": "3"}
	for _, tmpl := range templates {
		path, err := Resolve(tmpl, keys)
		require.NoError(t, err)
		require.Empty(t, Placeholders(path))
	}
}

func TestSubstitute_LeavesSymbolicRootUntouched(t *testing.T) {
	t.Setenv("TEST_REDUX", "/data")

	path, err := Substitute("$TEST_REDUX/{version}/test-{id}.fits", map[string]string{
		"version": "v1",
		"id":      "123",
	})
	require.NoError(t, err)
	require.Equal(t, "$TEST_REDUX/v1/test-123.fits", path)
}

func TestPlaceholders_OrderOfAppearance(t *testing.T) {
	require.Equal(t, []string{"version", "id"}, Placeholders("$R/{version}/test-{id}.fits"))
	require.Empty(t, Placeholders("no/placeholders/here"))
}

func TestEnvLabel(t *testing.T) {
	require.Equal(t, "TEST_REDUX", EnvLabel("$TEST_REDUX/{version}/test-{id}.fits"))
	require.Equal(t, "DR1", EnvLabel("${DR1}/spectra/{id}.fits"))
	require.Equal(t, "", EnvLabel("relative/{id}.fits"))
}
