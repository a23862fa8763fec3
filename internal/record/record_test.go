package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/datamodeler/internal/fits"
)

func testSeed() Seed {
	return Seed{
		Species:     "test",
		Template:    "$TEST_REDUX/{version}/test-{id}.fits",
		Filename:    "test-123.fits",
		Filetype:    "FITS",
		Filesize:    "28 KB",
		Environment: "TEST_REDUX",
	}
}

func testRelease(sectionName string) Release {
	return Release{
		Path:        "$TEST_REDUX/{version}/test-{id}.fits",
		Example:     "$TEST_REDUX/v1/test-123.fits",
		Environment: "TEST_REDUX",
		Sections: []fits.Section{{
			Name:        sectionName,
			Description: PlaceholderDescription,
			IsImage:     true,
			Size:        "0 bytes",
			Header:      []fits.Attribute{{Key: "SIMPLE", Value: true, Comment: "conforms"}},
		}},
	}
}

func TestNew_SeedsGeneralRegionWithPlaceholders(t *testing.T) {
	r := New(testSeed())

	require.Equal(t, "test", r.General.GetString("name"))
	require.NotEmpty(t, r.General.GetString("uid"))
	require.Equal(t, Placeholder, r.General.GetString("short"))
	require.Equal(t, Placeholder, r.General.GetString("description"))
	require.Equal(t, "FITS", r.General.GetString("filetype"))
	require.Equal(t, 0, r.Releases.Len())
}

func TestMerge_CreatesRecordWhenExistingIsNil(t *testing.T) {
	r := Merge(nil, "v1", testRelease("PRIMARY"), testSeed())

	require.NotNil(t, r)
	require.Equal(t, []string{"v1"}, r.Releases.Keys())
	rel, ok := r.Releases.Get("v1")
	require.True(t, ok)
	require.Equal(t, "PRIMARY", rel.Sections[0].Name)
}

func TestMerge_ReleasesAccumulate(t *testing.T) {
	r := Merge(nil, "v1", testRelease("PRIMARY"), testSeed())
	r = Merge(r, "v2", testRelease("FLUX"), testSeed())

	require.Equal(t, []string{"v1", "v2"}, r.Releases.Keys())
	require.Equal(t, "v2", r.Releases.Latest())

	v1, ok := r.Releases.Get("v1")
	require.True(t, ok)
	require.Equal(t, "PRIMARY", v1.Sections[0].Name)
	v2, ok := r.Releases.Get("v2")
	require.True(t, ok)
	require.Equal(t, "FLUX", v2.Sections[0].Name)
}

func TestMerge_IsIdempotent(t *testing.T) {
	r := Merge(nil, "v1", testRelease("PRIMARY"), testSeed())
	once := *r
	onceKeys := r.Releases.Keys()

	r = Merge(r, "v1", testRelease("PRIMARY"), testSeed())
	require.Equal(t, onceKeys, r.Releases.Keys())
	require.Equal(t, once.Releases, r.Releases)
	require.Equal(t, once.General, r.General)
}

func TestMerge_PreservesHumanEditedGeneralFields(t *testing.T) {
	r := Merge(nil, "v1", testRelease("PRIMARY"), testSeed())
	r.General.Set("short", "A test spectrum product")
	uid := r.General.GetString("uid")

	for range 3 {
		r = Merge(r, "v2", testRelease("FLUX"), testSeed())
	}

	require.Equal(t, "A test spectrum product", r.General.GetString("short"))
	require.Equal(t, uid, r.General.GetString("uid"))
}

func TestMerge_OverwritesReleaseEntry(t *testing.T) {
	r := Merge(nil, "v1", testRelease("PRIMARY"), testSeed())
	r = Merge(r, "v1", testRelease("RECALIBRATED"), testSeed())

	require.Equal(t, []string{"v1"}, r.Releases.Keys())
	rel, _ := r.Releases.Get("v1")
	require.Equal(t, "RECALIBRATED", rel.Sections[0].Name)
}

func TestFields_OrderAndOpacity(t *testing.T) {
	var f Fields
	f.Set("b", 1)
	f.Set("a", 2)
	f.Set("b", 3)

	require.Equal(t, []string{"b", "a"}, f.Keys())
	v, ok := f.Get("b")
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestIsPlaceholder(t *testing.T) {
	require.True(t, IsPlaceholder(Placeholder))
	require.True(t, IsPlaceholder(PlaceholderDescription))
	require.False(t, IsPlaceholder("A human wrote this"))
	require.False(t, IsPlaceholder(42))
}

func TestSeedSectionPlaceholders(t *testing.T) {
	sections := []fits.Section{{
		Name: "CATALOG",
		Columns: []fits.Column{
			{Name: "FLUX", Type: "float32", Unit: "nJy"},
			{Name: "ID", Type: "int64"},
		},
	}}

	SeedSectionPlaceholders(sections)

	require.Equal(t, PlaceholderDescription, sections[0].Description)
	require.Equal(t, "nJy", sections[0].Columns[0].Unit)
	require.Equal(t, Placeholder, sections[0].Columns[0].Description)
	require.Equal(t, Placeholder, sections[0].Columns[1].Unit)
}
