// Package config reads optional CLI defaults from a TOML file, falling
// back to hardcoded defaults when the file does not exist.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults holds the CLI's configurable defaults.
type Defaults struct {
	// OutputSuffix is appended to an input file's name to produce the
	// default output artifact name (e.g. "input.txt" -> "input.txt.wot").
	OutputSuffix string `toml:"output_suffix"`

	// ChunkSize is the number of bytes read per AppendAll call while
	// streaming an input file into the grammar builder.
	ChunkSize int `toml:"chunk_size"`

	// Verbose turns on the human-readable summary printed after encode or
	// decode, independent of the tty auto-detection.
	Verbose bool `toml:"verbose"`
}

// Default returns the hardcoded defaults used when no config file is
// present.
func Default() Defaults {
	return Defaults{
		OutputSuffix: ".wot",
		ChunkSize:    64 * 1024,
		Verbose:      false,
	}
}

// Load reads path and decodes it over the hardcoded defaults, so a config
// file only needs to set the fields it wants to override. If path does not
// exist, Load returns Default() with no error.
func Load(path string) (Defaults, error) {
	d := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return d, nil
	}
	if err != nil {
		return Defaults{}, err
	}

	if err := toml.Unmarshal(data, &d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}
