package fdc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"testing"

	"github.com/go-audio/riff"
)

func TestDecoderReadAll(t *testing.T) {
	header := testHeader()
	params := testParameters()
	path := writeTestContainer(t, header, params, nil)

	dec := openTestDecoder(t, path)
	if err := dec.ReadAll(); err != nil {
		t.Fatalf("read all: %v", err)
	}

	if dec.Header == nil {
		t.Fatal("expected a decoded header")
	}

	if dec.Header.RecordingID != header.RecordingID {
		t.Fatalf("recording ID mismatch: got %s want %s", dec.Header.RecordingID, header.RecordingID)
	}

	if dec.Header.Tail != header.Tail {
		t.Fatalf("tail mismatch: got %q want %q", dec.Header.Tail, header.Tail)
	}

	if dec.Header.Duration != header.Duration {
		t.Fatalf("duration mismatch: got %g want %g", dec.Header.Duration, header.Duration)
	}

	if len(dec.Parameters) != len(params) {
		t.Fatalf("expected %d parameters, got %d", len(params), len(dec.Parameters))
	}

	for i, want := range params {
		got := dec.Parameters[i]

		if got.Name != want.Name {
			t.Fatalf("parameter %d name mismatch: got %q want %q", i, got.Name, want.Name)
		}

		if got.Frequency != want.Frequency || got.Offset != want.Offset {
			t.Fatalf("parameter %q sampling mismatch: got %g@%g want %g@%g",
				got.Name, got.Frequency, got.Offset, want.Frequency, want.Offset)
		}

		if got.Units != want.Units {
			t.Fatalf("parameter %q units mismatch: got %q want %q", got.Name, got.Units, want.Units)
		}

		if len(got.Samples) != len(want.Samples) {
			t.Fatalf("parameter %q sample count mismatch: got %d want %d",
				got.Name, len(got.Samples), len(want.Samples))
		}

		for j := range want.Samples {
			if got.Samples[j] != want.Samples[j] {
				t.Fatalf("parameter %q sample %d mismatch: got %g want %g",
					got.Name, j, got.Samples[j], want.Samples[j])
			}
		}
	}
}

func TestDecoderMaskRoundTrip(t *testing.T) {
	path := writeTestContainer(t, testHeader(), testParameters(), nil)

	dec := openTestDecoder(t, path)

	p, ok := dec.Parameter("Altitude STD")
	if !ok {
		t.Fatal("expected to find Altitude STD")
	}

	if len(p.Mask) != len(p.Samples) {
		t.Fatalf("mask length mismatch: got %d want %d", len(p.Mask), len(p.Samples))
	}

	if !p.Mask[1] || p.Mask[0] || p.Mask[2] || p.Mask[3] {
		t.Fatalf("mask content mismatch: %v", p.Mask)
	}

	if p.MaskedCount() != 1 {
		t.Fatalf("masked count mismatch: got %d want 1", p.MaskedCount())
	}
}

func TestDecoderParameterNames(t *testing.T) {
	path := writeTestContainer(t, testHeader(), testParameters(), nil)

	dec := openTestDecoder(t, path)

	names := dec.ParameterNames()
	want := []string{"Airspeed", "Altitude STD", "Pitch"}

	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}

	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("name %d mismatch: got %q want %q", i, names[i], want[i])
		}
	}
}

func TestDecoderParameterLookupMiss(t *testing.T) {
	path := writeTestContainer(t, testHeader(), testParameters(), nil)

	dec := openTestDecoder(t, path)

	if _, ok := dec.Parameter("Nonexistent Param"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestDecoderRejectsNonRiff(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte("JUNKJUNKJUNKJUNK")))

	err := dec.ReadAll()
	if err == nil {
		t.Fatal("expected failure for a non-riff file")
	}

	if !errors.Is(err, riff.ErrFmtNotSupported) {
		t.Fatalf("expected riff format error, got %v", err)
	}
}

func TestDecoderRejectsWrongForm(t *testing.T) {
	data := makeRiffFile("WAVE", nil)

	dec := NewDecoder(bytes.NewReader(data))

	err := dec.ReadAll()
	if !errors.Is(err, ErrNotContainer) {
		t.Fatalf("expected ErrNotContainer, got %v", err)
	}
}

func TestDecoderHeaderChunkMissing(t *testing.T) {
	junk := testChunk{id: "JUNK", data: []byte{1, 2, 3, 4}}
	data := makeRiffFile("FDAT", []testChunk{junk})

	dec := NewDecoder(bytes.NewReader(data))

	err := dec.ReadAll()
	if !errors.Is(err, ErrHeaderChunkMissing) {
		t.Fatalf("expected ErrHeaderChunkMissing, got %v", err)
	}
}

func TestDecoderUnsupportedVersion(t *testing.T) {
	header := testHeader()
	header.Version = 42

	hdrData := encodeFileHeaderChunk(header)
	data := makeRiffFile("FDAT", []testChunk{{id: "fhdr", data: hdrData}})

	dec := NewDecoder(bytes.NewReader(data))

	err := dec.ReadAll()
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecoderCapturesUnknownChunks(t *testing.T) {
	raw := []RawChunk{
		{ID: [4]byte{'J', 'U', 'N', 'K'}, Data: []byte{1, 2, 3, 4}},
		{ID: [4]byte{'x', 't', 'r', 'a'}, Data: []byte{9, 8, 7, 6, 5, 4}},
	}
	path := writeTestContainer(t, testHeader(), testParameters(), raw)

	dec := openTestDecoder(t, path)
	if err := dec.ReadAll(); err != nil {
		t.Fatalf("read all: %v", err)
	}

	chunks := dec.RawChunks()
	if len(chunks) != 2 {
		t.Fatalf("expected 2 unknown chunks, got %d", len(chunks))
	}

	if chunks[0].ID != raw[0].ID || !bytes.Equal(chunks[0].Data, raw[0].Data) {
		t.Fatalf("first unknown chunk mismatch: %+v", chunks[0])
	}

	if chunks[1].ID != raw[1].ID || !bytes.Equal(chunks[1].Data, raw[1].Data) {
		t.Fatalf("second unknown chunk mismatch: %+v", chunks[1])
	}

	if chunks[0].Order >= chunks[1].Order {
		t.Fatalf("unknown chunk order not preserved: %d >= %d", chunks[0].Order, chunks[1].Order)
	}
}

func TestDecoderReadAllFailsOnCorruptParameter(t *testing.T) {
	hdrChunk := testChunk{id: "fhdr", data: encodeFileHeaderChunk(testHeader())}

	cases := []struct {
		name string
		list []byte
		want error
	}{
		{
			name: "misaligned samples",
			list: corruptParamList(CIDData, make([]byte, 7)),
			want: errMisalignedSamples,
		},
		{
			name: "short metadata",
			list: corruptParamList(CIDMeta, make([]byte, 4)),
			want: errParamMetaTooShort,
		},
		{
			name: "oversized sub-chunk",
			list: oversizedSubChunkList(),
			want: errParamSubChunkSize,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := makeRiffFile("FDAT", []testChunk{hdrChunk, {id: "LIST", data: tc.list}})

			dec := NewDecoder(bytes.NewReader(data))

			err := dec.ReadAll()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}

			if len(dec.Parameters) != 0 {
				t.Fatalf("expected no parameters from a corrupt list, got %d", len(dec.Parameters))
			}

			// the decode error must stick across repeat calls
			if err := dec.ReadAll(); !errors.Is(err, tc.want) {
				t.Fatalf("expected the decode error to stick, got %v", err)
			}

			if dec.IsValidFile() {
				t.Fatal("expected a corrupt container to be invalid")
			}
		})
	}
}

func TestDecoderOddUnknownChunkKeepsDeclaredSize(t *testing.T) {
	raw := []RawChunk{
		{ID: [4]byte{'J', 'U', 'N', 'K'}, Data: []byte{1, 2, 3}},
	}
	path := writeTestContainer(t, testHeader(), testParameters(), raw)

	dec := openTestDecoder(t, path)
	if err := dec.ReadAll(); err != nil {
		t.Fatalf("read all: %v", err)
	}

	chunks := dec.RawChunks()
	if len(chunks) != 1 {
		t.Fatalf("expected 1 unknown chunk, got %d", len(chunks))
	}

	if chunks[0].Size != 3 || !bytes.Equal(chunks[0].Data, []byte{1, 2, 3}) {
		t.Fatalf("odd-sized chunk altered: size %d data %v", chunks[0].Size, chunks[0].Data)
	}
}

func TestDecoderRewind(t *testing.T) {
	path := writeTestContainer(t, testHeader(), testParameters(), nil)

	dec := openTestDecoder(t, path)
	if err := dec.ReadAll(); err != nil {
		t.Fatalf("first read: %v", err)
	}

	first := len(dec.Parameters)

	if err := dec.Rewind(); err != nil {
		t.Fatalf("rewind: %v", err)
	}

	if err := dec.ReadAll(); err != nil {
		t.Fatalf("second read: %v", err)
	}

	if len(dec.Parameters) != first {
		t.Fatalf("expected %d parameters after rewind, got %d", first, len(dec.Parameters))
	}
}

func TestDecoderIsValidFile(t *testing.T) {
	path := writeTestContainer(t, testHeader(), testParameters(), nil)

	dec := openTestDecoder(t, path)
	if !dec.IsValidFile() {
		t.Fatal("expected a valid container file")
	}
}

func TestDecoderIsValidFileRejectsTruncated(t *testing.T) {
	path := writeTestContainer(t, testHeader(), testParameters(), nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	dec := NewDecoder(bytes.NewReader(data[:20]))
	if dec.IsValidFile() {
		t.Fatal("expected a truncated file to be invalid")
	}
}

// corruptParamList builds a PARM list payload with a valid name followed by
// the passed sub-chunk.
func corruptParamList(id [4]byte, payload []byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write(CIDParm)
	writeSubChunk(buf, CIDName, []byte("Airspeed"))
	writeSubChunk(buf, id, payload)

	return buf.Bytes()
}

// oversizedSubChunkList builds a PARM list payload whose pdat chunk declares
// more bytes than the list holds.
func oversizedSubChunkList() []byte {
	buf := &bytes.Buffer{}
	buf.Write(CIDParm)
	writeSubChunk(buf, CIDName, []byte("Airspeed"))
	buf.Write(CIDData[:])

	var size [4]byte

	binary.LittleEndian.PutUint32(size[:], 1<<20)
	buf.Write(size[:])
	buf.Write([]byte{1, 2, 3, 4})

	return buf.Bytes()
}

// makeRiffFile assembles a raw RIFF file with the passed form type and
// chunks, bypassing the encoder.
func makeRiffFile(form string, chunks []testChunk) []byte {
	body := &bytes.Buffer{}
	body.WriteString(form)

	for _, c := range chunks {
		body.WriteString(c.id)

		var size [4]byte

		binary.LittleEndian.PutUint32(size[:], uint32(len(c.data)))
		body.Write(size[:])
		body.Write(c.data)

		if len(c.data)%2 == 1 {
			body.WriteByte(0)
		}
	}

	out := &bytes.Buffer{}
	out.WriteString("RIFF")

	var size [4]byte

	binary.LittleEndian.PutUint32(size[:], uint32(body.Len()))
	out.Write(size[:])
	out.Write(body.Bytes())

	return out.Bytes()
}
