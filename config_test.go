package reveal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Load(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "reveal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"base": "base.jpg",
		"reveal": "reveal.jpg",
		"mask": "mask.png",
		"regions": [
			{"id": "sea", "color": "#0000ff", "threshold": 40},
			{"id": "land", "color": "#00ff00"}
		],
		"seed": 3
	}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal("base.jpg", cfg.Base)
	assert.Equal("mask.png", cfg.Mask)
	assert.Equal(DefaultVertices, cfg.Vertices)
	require.NotNil(t, cfg.Threshold)
	assert.Equal(DefaultThreshold, *cfg.Threshold)
	assert.Equal(int64(3), cfg.Seed)
	require.Len(t, cfg.Regions, 2)
	assert.Equal(40, *cfg.Regions[0].Threshold)
	assert.Nil(cfg.Regions[1].Threshold)
	assert.NoError(cfg.Validate())
}

func TestConfig_LoadExplicitZeroThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reveal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mask-threshold": 0, "vertices": 12}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threshold)
	assert.Equal(t, 0, *cfg.Threshold)
	assert.Equal(t, 12, cfg.Vertices)
}

func TestConfig_ReadOverlaysPresentOptions(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "reveal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mask": "mask.png", "opacity": 0}`), 0644))

	cfg := DefaultConfig()
	cfg.Base = "base.jpg"
	cfg.Opacity = 0.5
	require.NoError(t, ReadConfig(path, &cfg))

	assert.Equal("base.jpg", cfg.Base)
	assert.Equal("mask.png", cfg.Mask)
	assert.Zero(cfg.Opacity)
	assert.Equal(DefaultVertices, cfg.Vertices)
}

func TestConfig_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"regions": [`), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_ParseRegion(t *testing.T) {
	assert := assert.New(t)

	r, err := ParseRegion("sea=#0000ff")
	require.NoError(t, err)
	assert.Equal(RegionConfig{ID: "sea", Color: "#0000ff"}, r)

	r, err = ParseRegion(" land = #00ff00 : 25 ")
	require.NoError(t, err)
	assert.Equal("land", r.ID)
	assert.Equal("#00ff00", r.Color)
	require.NotNil(t, r.Threshold)
	assert.Equal(25, *r.Threshold)

	// Colors are validated lazily, when the region is first classified.
	r, err = ParseRegion("odd=purple")
	assert.NoError(err)
	assert.Equal("purple", r.Color)

	for _, s := range []string{"", "sea", "=#0000ff", "sea=#0000ff:many"} {
		_, err := ParseRegion(s)
		assert.Error(err, "input %q", s)
	}
}
