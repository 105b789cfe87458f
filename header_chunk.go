package fdc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"
	"github.com/google/uuid"
)

// fhdr payload layout: version u16, flags u16, recording UUID (16 bytes),
// duration f64, tail number (16 bytes, NUL-terminated).
const fileHeaderSize = 44

const maxTailLen = 15

var (
	errNilHeaderChunk      = errors.New("can't decode a nil header chunk")
	errHeaderChunkTooShort = errors.New("fhdr chunk too short")
)

// FileHeader describes the recording stored in a container file.
type FileHeader struct {
	Version uint16
	Flags   uint16
	// RecordingID uniquely identifies the recording the parameters came from.
	RecordingID uuid.UUID
	// Duration is the length of the recording in seconds.
	Duration float64
	// Tail is the aircraft tail number, at most 15 bytes of ASCII.
	Tail string
}

func (h *FileHeader) Clone() *FileHeader {
	if h == nil {
		return nil
	}

	out := *h

	return &out
}

func encodeFileHeaderChunk(h *FileHeader) []byte {
	buf := make([]byte, fileHeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.Version)
	binary.LittleEndian.PutUint16(buf[2:4], h.Flags)
	copy(buf[4:20], h.RecordingID[:])
	binary.LittleEndian.PutUint64(buf[20:28], math.Float64bits(h.Duration))

	tail := h.Tail
	if len(tail) > maxTailLen {
		tail = tail[:maxTailLen]
	}

	copy(buf[28:44], tail)

	return buf
}

func decodeFileHeaderChunk(ch *riff.Chunk) (*FileHeader, error) {
	if ch == nil {
		return nil, errNilHeaderChunk
	}

	buf := make([]byte, ch.Size)

	n, err := io.ReadFull(ch, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read the fhdr chunk - %w", err)
	}

	if n < fileHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", errHeaderChunkTooShort, n)
	}

	ch.Drain()

	h := &FileHeader{
		Version:  binary.LittleEndian.Uint16(buf[0:2]),
		Flags:    binary.LittleEndian.Uint16(buf[2:4]),
		Duration: math.Float64frombits(binary.LittleEndian.Uint64(buf[20:28])),
		Tail:     nullTermStr(buf[28:44]),
	}

	id, err := uuid.FromBytes(buf[4:20])
	if err != nil {
		return nil, fmt.Errorf("failed to read recording ID: %w", err)
	}

	h.RecordingID = id

	return h, nil
}
