package commands

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
)

func TestParseKeywords(t *testing.T) {
	keywords, err := parseKeywords([]string{"version=v1", "id=123", "target=ngc=1275"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"version": "v1",
		"id":      "123",
		"target":  "ngc=1275", // first '=' splits
	}, keywords)
}

func TestParseKeywords_RejectsBarePairs(t *testing.T) {
	_, err := parseKeywords([]string{"version"})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryKeyword))

	_, err = parseKeywords([]string{"=v1"})
	require.Error(t, err)
}

func TestCLI_ParsesGenerateCommand(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{
		"generate", "test", "$TEST_REDUX/{version}/test-{id}.fits", "version=v1", "id=123",
	})
	require.NoError(t, err)
	require.Contains(t, ctx.Command(), "generate")
	require.Equal(t, "test", cli.Generate.Species)
	require.Equal(t, "$TEST_REDUX/{version}/test-{id}.fits", cli.Generate.Template)
	require.Equal(t, []string{"version=v1", "id=123"}, cli.Generate.Keywords)
}

func TestCLI_ParsesRenderOnlyFlag(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	_, err = parser.Parse([]string{"generate", "test", "--render-only", "--release", "v1"})
	require.NoError(t, err)
	require.True(t, cli.Generate.RenderOnly)
	require.Equal(t, "v1", cli.Generate.Release)
}

func TestCLI_ParsesHistoryDefaults(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	_, err = parser.Parse([]string{"history"})
	require.NoError(t, err)
	require.Equal(t, 20, cli.History.Limit)
}
