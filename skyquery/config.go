package skyquery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

/* Example config file ...

resolver: https://cds.unistra.fr/cgi-bin/nph-sesame/-oI/SNV
skyview: https://skyview.gsfc.nasa.gov/current/cgi/runquery.pl
surveys:
  red: DSS2 IR
  green: DSS2 Red
  blue: DSS2 Blue
pixels: 800
timeout: 60s
outputdir: downloads

*/

const (
	DefaultResolverURL = "https://cds.unistra.fr/cgi-bin/nph-sesame/-oI/SNV"
	DefaultSkyViewURL  = "https://skyview.gsfc.nasa.gov/current/cgi/runquery.pl"
)

// Surveys names the SkyView survey fetched for each channel.
type Surveys struct {
	Red   string `yaml:"red"`
	Green string `yaml:"green"`
	Blue  string `yaml:"blue"`
}

// List returns the surveys in red, green, blue order.
func (s Surveys) List() []string { return []string{s.Red, s.Green, s.Blue} }

// Config holds the sky query settings, stored as YAML.
type Config struct {
	ResolverURL string        `yaml:"resolver"`
	SkyViewURL  string        `yaml:"skyview"`
	Surveys     Surveys       `yaml:"surveys"`
	Pixels      int           `yaml:"pixels"`
	Timeout     time.Duration `yaml:"timeout"`
	OutputDir   string        `yaml:"outputdir"`

	// Extra query parameters sent to SkyView (e.g. Sampler: Clip).
	Extra map[string]string `yaml:"extra,omitempty"`
}

// DefaultConfig returns the DSS2 IR, Red and Blue surveys at 800 pixels.
func DefaultConfig() Config {
	return Config{
		ResolverURL: DefaultResolverURL,
		SkyViewURL:  DefaultSkyViewURL,
		Surveys:     Surveys{Red: "DSS2 IR", Green: "DSS2 Red", Blue: "DSS2 Blue"},
		Pixels:      800,
		Timeout:     60 * time.Second,
		OutputDir:   ".",
	}
}

// LoadConfig reads a YAML config over the defaults. A missing file is not an
// error: the defaults are returned.
func LoadConfig(filename string) (Config, error) {
	c := DefaultConfig()

	contents, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return c, fmt.Errorf("read '%s': %w", filename, err)
	}
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %w", filename, err)
	}
	return c, c.Validate()
}

// SaveConfig writes c as YAML.
func SaveConfig(filename string, c Config) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, out, 0o644)
}

// Validate does sanity checks.
func (c Config) Validate() error {
	if c.ResolverURL == "" || c.SkyViewURL == "" {
		return errors.New("resolver and skyview URLs are required")
	}
	for _, s := range c.Surveys.List() {
		if s == "" {
			return errors.New("a survey is required for each of red, green and blue")
		}
	}
	if c.Pixels < 1 {
		return fmt.Errorf("pixels must be positive, got %d", c.Pixels)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// AsYaml renders c the way SaveConfig writes it.
func (c Config) AsYaml() string {
	out, _ := yaml.Marshal(c)
	return string(out)
}
