package fdc

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// StripOptions controls how Strip builds its output file. The zero value is
// not the default; use DefaultStripOptions.
type StripOptions struct {
	// KeepUnknownChunks carries non-parameter chunks from the input into the
	// output so stripped fixtures keep their ancillary data.
	KeepUnknownChunks bool `toml:"keep_unknown_chunks"`
}

// DefaultStripOptions returns the options used when no file is supplied.
func DefaultStripOptions() StripOptions {
	return StripOptions{
		KeepUnknownChunks: true,
	}
}

// LoadStripOptions reads options from a TOML file, falling back to defaults
// for keys the file omits.
func LoadStripOptions(path string) (StripOptions, error) {
	opts := DefaultStripOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read options file %s - %w", path, err)
	}

	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options file %s - %w", path, err)
	}

	return opts, nil
}
