// Command gen-flight writes a synthetic flight data container, useful as a
// fixture when a real recording is unavailable.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/google/uuid"

	"github.com/kanav01s/fdc"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-flight", flag.ContinueOnError)

	output := flagSet.String("output", "output.fdc", "filename to write to")
	duration := flagSet.Float64("duration", 60, "length in seconds of the synthetic flight")
	tail := flagSet.String("tail", "G-ABCD", "aircraft tail number to record in the header")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	log.Printf("generating a %g sec synthetic flight for %s", *duration, *tail)

	file, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", *output, err)
	}
	defer file.Close()

	enc := fdc.NewEncoder(file, &fdc.FileHeader{
		Version:     fdc.ContainerVersion,
		RecordingID: uuid.New(),
		Duration:    *duration,
		Tail:        *tail,
	})

	for _, p := range syntheticParameters(*duration) {
		err := enc.WriteParameter(p)
		if err != nil {
			return err
		}
	}

	return enc.Close()
}

// syntheticParameters builds the standard parameter set with plausible
// waveforms: a climb-and-descend altitude profile, a matching airspeed curve
// and gentle oscillations for the attitude and position channels.
func syntheticParameters(duration float64) []*fdc.Parameter {
	return []*fdc.Parameter{
		genParam("Airspeed", 4, "kt", duration, func(t float64) float64 {
			return 130 + 120*math.Sin(math.Pi*t/duration)
		}),
		genParam("Altitude STD", 4, "ft", duration, func(t float64) float64 {
			return 35000 * math.Sin(math.Pi*t/duration)
		}),
		genParam("Pitch", 8, "deg", duration, func(t float64) float64 {
			return 2.5 * math.Sin(2*math.Pi*t/30)
		}),
		genParam("Heading", 1, "deg", duration, func(t float64) float64 {
			return math.Mod(90+t/10, 360)
		}),
		genParam("Latitude", 1, "deg", duration, func(t float64) float64 {
			return 52.0 + t*0.0001
		}),
		genParam("Longitude", 1, "deg", duration, func(t float64) float64 {
			return -1.0 - t*0.0002
		}),
	}
}

func genParam(name string, freq float64, units string, duration float64, f func(t float64) float64) *fdc.Parameter {
	n := int(duration * freq)
	samples := make([]float64, n)

	for i := range samples {
		samples[i] = f(float64(i) / freq)
	}

	return &fdc.Parameter{
		Name:      name,
		Frequency: freq,
		Units:     units,
		Samples:   samples,
	}
}
