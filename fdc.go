package fdc

import "errors"

// ContainerVersion is the fhdr version written by this package.
const ContainerVersion = 1

var (
	// ErrNotContainer is returned when a RIFF file is not an FDAT form.
	ErrNotContainer = errors.New("not a flight data container")
	// ErrHeaderChunkMissing is returned when the fhdr chunk is absent.
	ErrHeaderChunkMissing = errors.New("fhdr chunk not found in container")
	// ErrUnsupportedVersion is returned for fhdr versions this package can't read.
	ErrUnsupportedVersion = errors.New("unsupported container version")
)

func nullTermStr(b []byte) string {
	return string(b[:clen(b)])
}

func clen(b []byte) int {
	for i := range b {
		if b[i] == 0 {
			return i
		}
	}

	return len(b)
}
