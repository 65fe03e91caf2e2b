package reveal

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadConfig reads a JSON configuration file. Options missing from the file
// keep their default values.
//
//	{
//	  "base": "base.jpg",
//	  "reveal": "reveal.jpg",
//	  "mask": "mask.png",
//	  "regions": [{"id": "sea", "color": "#0000ff", "threshold": 40}],
//	  "vertices": 100,
//	  "mask-threshold": 10
//	}
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	err := ReadConfig(path, &cfg)
	return cfg, err
}

// ReadConfig overlays the options present in the JSON file on cfg.
// Options absent from the file, explicit zeros excepted, are left untouched.
func ReadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "cannot read the configuration file")
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "cannot parse the configuration file %s", path)
	}
	return nil
}

// ParseRegion parses the "id=#rrggbb[:threshold]" region notation.
// The color itself is not validated here; malformed colors resolve to black.
func ParseRegion(s string) (RegionConfig, error) {
	id, rest, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return RegionConfig{}, errors.Errorf("invalid region %q, expected id=#rrggbb[:threshold]", s)
	}

	cfg := RegionConfig{ID: id}
	color, threshold, hasThreshold := strings.Cut(rest, ":")
	cfg.Color = strings.TrimSpace(color)

	if hasThreshold {
		t, err := strconv.Atoi(strings.TrimSpace(threshold))
		if err != nil {
			return RegionConfig{}, errors.Wrapf(err, "invalid threshold in region %q", s)
		}
		cfg.Threshold = &t
	}
	return cfg, nil
}
