package fdc

import (
	"fmt"
	"io"
	"os"
)

// StripResult reports which requested parameters made it into the output
// file.
type StripResult struct {
	// Matched holds the names found in the input, in match order.
	Matched []string
}

// Report writes the user-facing outcome of a strip run.
func (r *StripResult) Report(w io.Writer) {
	if r == nil || len(r.Matched) == 0 {
		fmt.Fprintln(w, "No matching parameters were found in the hdf file.")

		return
	}

	fmt.Fprintln(w, "The following parameters are in the output hdf file:")

	for _, name := range r.Matched {
		fmt.Fprintf(w, " * %s\n", name)
	}
}

// Strip copies the requested parameters from the container at inputPath into
// a brand new container at outputPath. Requested names absent from the input
// are skipped silently; duplicates are copied once. The output is written to
// a temporary file and renamed into place on success, so a failed run never
// leaves a partial file at outputPath.
func Strip(inputPath, outputPath string, names []string, opts StripOptions) (*StripResult, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s - %w", inputPath, err)
	}
	defer in.Close()

	dec := NewDecoder(in)
	if err := dec.ReadAll(); err != nil {
		return nil, fmt.Errorf("failed to read %s - %w", inputPath, err)
	}

	if !opts.KeepUnknownChunks {
		dec.SetRawChunks(nil)
	}

	tmpPath := outputPath + ".tmp"

	out, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s - %w", tmpPath, err)
	}

	result, err := writeStripped(out, dec, names)
	if err != nil {
		out.Close()
		os.Remove(tmpPath)

		return nil, err
	}

	if err := out.Close(); err != nil {
		os.Remove(tmpPath)

		return nil, fmt.Errorf("failed to close %s - %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)

		return nil, fmt.Errorf("failed to move output into place - %w", err)
	}

	return result, nil
}

func writeStripped(out io.WriteSeeker, dec *Decoder, names []string) (*StripResult, error) {
	enc := NewEncoderFromDecoder(out, dec)
	result := &StripResult{}
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}

		seen[name] = true

		param, ok := dec.Parameter(name)
		if !ok {
			continue
		}

		if err := enc.WriteParameter(param); err != nil {
			return nil, err
		}

		result.Matched = append(result.Matched, name)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize output - %w", err)
	}

	return result, nil
}
