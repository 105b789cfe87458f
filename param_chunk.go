package fdc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"
)

// paramMetaSize is the fixed prefix of the pmet payload: frequency f64,
// offset f64, flags u16. The units string fills the rest of the chunk.
const paramMetaSize = 18

var (
	errParamNilChunk     = errors.New("can't decode a nil chunk")
	errParamNilDecoder   = errors.New("nil decoder")
	errNotParamList      = errors.New("not a PARM list payload")
	errParamNameMissing  = errors.New("PARM list has no pnam chunk")
	errParamMetaTooShort = errors.New("pmet chunk too short")
	errParamSubChunkSize = errors.New("PARM sub-chunk exceeds list size")
	errMisalignedSamples = errors.New("pdat chunk size is not a multiple of 8")
	errNilParameter      = errors.New("can't encode a nil parameter")
	errParamNameEmpty    = errors.New("parameter name must not be empty")
)

// DecodeParamChunk decodes a LIST/PARM chunk and appends the parameter to the
// decoder.
func DecodeParamChunk(d *Decoder, ch *riff.Chunk) error {
	if ch == nil {
		return errParamNilChunk
	}

	if d == nil {
		return errParamNilDecoder
	}

	// read the entire chunk in memory
	buf := make([]byte, ch.Size)

	n, err := io.ReadFull(ch, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read the PARM list chunk - %w", err)
	}

	ch.Drain()

	param, err := decodeParamListPayload(buf[:n])
	if err != nil {
		return err
	}

	d.Parameters = append(d.Parameters, param)

	return nil
}

// decodeParamListPayload parses a PARM list payload, list type included.
func decodeParamListPayload(data []byte) (*Parameter, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], CIDParm) {
		return nil, errNotParamList
	}

	p := &Parameter{}

	var (
		maskBits []byte
		sawName  bool
	)

	pos := 4
	for pos+8 <= len(data) {
		var id [4]byte

		copy(id[:], data[pos:pos+4])
		size := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		pos += 8

		end := pos + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errParamSubChunkSize, id)
		}

		payload := data[pos:end]

		switch id {
		case CIDName:
			p.Name = string(payload)
			sawName = true
		case CIDMeta:
			if len(payload) < paramMetaSize {
				return nil, fmt.Errorf("%w: %d bytes", errParamMetaTooShort, len(payload))
			}

			p.Frequency = math.Float64frombits(binary.LittleEndian.Uint64(payload[0:8]))
			p.Offset = math.Float64frombits(binary.LittleEndian.Uint64(payload[8:16]))
			p.Flags = binary.LittleEndian.Uint16(payload[16:18])
			p.Units = string(payload[paramMetaSize:])
		case CIDData:
			if len(payload)%8 != 0 {
				return nil, fmt.Errorf("%w: %d bytes", errMisalignedSamples, len(payload))
			}

			p.Samples = make([]float64, len(payload)/8)
			for i := range p.Samples {
				p.Samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8 : i*8+8]))
			}
		case CIDMask:
			maskBits = append([]byte(nil), payload...)
		default:
			// unknown sub-chunk, skip
		}

		pos = end
		if size%2 == 1 {
			pos++
		}
	}

	if !sawName {
		return nil, errParamNameMissing
	}

	if maskBits != nil {
		p.Mask = unpackMask(maskBits, len(p.Samples))
	}

	return p, nil
}

// encodeParamListPayload builds a canonical PARM list payload, list type
// included. Sub-chunk order is fixed (pnam, pmet, pdat, pmsk) so identical
// parameters always serialize to identical bytes.
func encodeParamListPayload(p *Parameter) ([]byte, error) {
	if p == nil {
		return nil, errNilParameter
	}

	if p.Name == "" {
		return nil, errParamNameEmpty
	}

	buf := &bytes.Buffer{}
	buf.Write(CIDParm)

	writeSubChunk(buf, CIDName, []byte(p.Name))

	meta := make([]byte, paramMetaSize+len(p.Units))
	binary.LittleEndian.PutUint64(meta[0:8], math.Float64bits(p.Frequency))
	binary.LittleEndian.PutUint64(meta[8:16], math.Float64bits(p.Offset))
	binary.LittleEndian.PutUint16(meta[16:18], p.Flags)
	copy(meta[paramMetaSize:], p.Units)
	writeSubChunk(buf, CIDMeta, meta)

	samples := make([]byte, len(p.Samples)*8)
	for i, v := range p.Samples {
		binary.LittleEndian.PutUint64(samples[i*8:i*8+8], math.Float64bits(v))
	}

	writeSubChunk(buf, CIDData, samples)

	if len(p.Mask) > 0 {
		writeSubChunk(buf, CIDMask, packMask(p.Mask))
	}

	return buf.Bytes(), nil
}

func writeSubChunk(buf *bytes.Buffer, id [4]byte, payload []byte) {
	buf.Write(id[:])

	var size [4]byte

	binary.LittleEndian.PutUint32(size[:], uint32(len(payload)))
	buf.Write(size[:])
	buf.Write(payload)

	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
}
