package fdc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func testHeader() *FileHeader {
	return &FileHeader{
		Version:     ContainerVersion,
		RecordingID: uuid.MustParse("9f1c2f4a-7b1e-4f44-9c43-0d9e5a2b1d10"),
		Duration:    120,
		Tail:        "G-TEST",
	}
}

func testParameters() []*Parameter {
	return []*Parameter{
		{
			Name:      "Airspeed",
			Frequency: 4,
			Units:     "kt",
			Samples:   []float64{110.5, 111, 112.25, 113},
		},
		{
			Name:      "Altitude STD",
			Frequency: 4,
			Units:     "ft",
			Samples:   []float64{10000, 10010, 10025, 10050},
			Mask:      []bool{false, true, false, false},
		},
		{
			Name:      "Pitch",
			Frequency: 8,
			Offset:    0.125,
			Units:     "deg",
			Samples:   []float64{1.5, 1.6, 1.4, 1.2, 1.1, 1.3, 1.5, 1.7},
		},
	}
}

// writeTestContainer encodes a container file and returns its path.
func writeTestContainer(t *testing.T, header *FileHeader, params []*Parameter, raw []RawChunk) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flight.fdc")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create container: %v", err)
	}

	enc := NewEncoder(f, header)
	enc.UnknownChunks = raw

	for _, p := range params {
		if err := enc.WriteParameter(p); err != nil {
			t.Fatalf("write parameter %q: %v", p.Name, err)
		}
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	return path
}

func openTestDecoder(t *testing.T, path string) *Decoder {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open container: %v", err)
	}

	t.Cleanup(func() { f.Close() })

	return NewDecoder(f)
}
