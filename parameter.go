package fdc

// Parameter is a named time series recorded in a container file.
type Parameter struct {
	Name string
	// Frequency is the sample rate in Hz.
	Frequency float64
	// Offset is the time in seconds from the start of the recording frame to
	// the first sample.
	Offset float64
	Units  string
	Flags  uint16
	// Samples holds the recorded values.
	Samples []float64
	// Mask marks invalid samples. Empty means every sample is valid;
	// otherwise it has one entry per sample.
	Mask []bool
}

func (p *Parameter) Clone() *Parameter {
	if p == nil {
		return nil
	}

	out := *p
	out.Samples = append([]float64(nil), p.Samples...)
	out.Mask = append([]bool(nil), p.Mask...)

	return &out
}

// MaskedCount returns the number of samples flagged as invalid.
func (p *Parameter) MaskedCount() int {
	if p == nil {
		return 0
	}

	count := 0
	for _, masked := range p.Mask {
		if masked {
			count++
		}
	}

	return count
}

// Duration returns the time span covered by the samples in seconds.
func (p *Parameter) Duration() float64 {
	if p == nil || p.Frequency == 0 {
		return 0
	}

	return float64(len(p.Samples)) / p.Frequency
}

// packMask packs validity flags 1 bit per sample, LSB first.
func packMask(mask []bool) []byte {
	out := make([]byte, (len(mask)+7)/8)
	for i, masked := range mask {
		if masked {
			out[i/8] |= 1 << (i % 8)
		}
	}

	return out
}

func unpackMask(data []byte, sampleCount int) []bool {
	if len(data) == 0 || sampleCount == 0 {
		return nil
	}

	out := make([]bool, sampleCount)
	for i := range out {
		if i/8 >= len(data) {
			break
		}

		out[i] = data[i/8]&(1<<(i%8)) != 0
	}

	return out
}
