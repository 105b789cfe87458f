package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kanav01s/fdc"
)

func TestRunGeneratesContainer(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "flight.fdc")

	err := run([]string{"-output", outPath, "-duration", "2", "-tail", "N12345"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open generated file: %v", err)
	}
	defer f.Close()

	dec := fdc.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("generated file is not a valid container")
	}

	if dec.Header.Tail != "N12345" {
		t.Fatalf("tail mismatch: %q", dec.Header.Tail)
	}

	if dec.Header.Duration != 2 {
		t.Fatalf("duration mismatch: %g", dec.Header.Duration)
	}

	names := dec.ParameterNames()
	want := map[string]bool{
		"Airspeed": false, "Altitude STD": false, "Pitch": false,
		"Heading": false, "Latitude": false, "Longitude": false,
	}

	for _, name := range names {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}

	for name, seen := range want {
		if !seen {
			t.Fatalf("missing standard parameter %q in %v", name, names)
		}
	}

	airspeed, ok := dec.Parameter("Airspeed")
	if !ok {
		t.Fatal("Airspeed lookup failed")
	}

	// 2 sec at 4 Hz
	if len(airspeed.Samples) != 8 {
		t.Fatalf("expected 8 airspeed samples, got %d", len(airspeed.Samples))
	}
}

func TestRunFlagParseError(t *testing.T) {
	err := run([]string{"-duration", "not-a-number"})
	if err == nil {
		t.Fatalf("expected failure for invalid flag value")
	}
}

func TestRunInvalidOutputPath(t *testing.T) {
	err := run([]string{"-output", "/nonexistent/dir/flight.fdc", "-duration", "1"})
	if err == nil {
		t.Fatal("expected error for invalid output path")
	}
}
