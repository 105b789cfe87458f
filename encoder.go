package fdc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/riff"
)

var errNilWriter = errors.New("can't write to a nil writer")

// Encoder writes parameters into a new flight data container.
type Encoder struct {
	w io.WriteSeeker

	// Header is written as the fhdr chunk. A minimal header is generated if
	// left nil.
	Header *FileHeader
	// UnknownChunks contains non-core chunks to preserve on write. They are
	// written after the parameters on Close.
	UnknownChunks []RawChunk

	WrittenBytes int
	wroteHeader  bool
	wroteRaw     bool
}

// NewEncoder creates a new encoder to create a new container file.
func NewEncoder(w io.WriteSeeker, header *FileHeader) *Encoder {
	return &Encoder{
		w:      w,
		Header: header.Clone(),
	}
}

// NewEncoderFromDecoder creates an encoder initialized from decoder state.
// It carries the file header and preserved unknown chunks for round-trip
// flows.
func NewEncoderFromDecoder(w io.WriteSeeker, dec *Decoder) *Encoder {
	if dec == nil {
		return NewEncoder(w, nil)
	}

	enc := NewEncoder(w, dec.Header)
	enc.UnknownChunks = cloneRawChunks(dec.UnknownChunks)

	return enc
}

// RawChunks returns a copy of configured non-core chunks.
func (e *Encoder) RawChunks() []RawChunk {
	if e == nil {
		return nil
	}

	return cloneRawChunks(e.UnknownChunks)
}

// SetRawChunks replaces configured non-core chunks with the provided set.
func (e *Encoder) SetRawChunks(chunks []RawChunk) {
	if e == nil {
		return
	}

	e.UnknownChunks = cloneRawChunks(chunks)
}

// AddLE serializes and adds the passed value using little endian.
func (e *Encoder) AddLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

// AddBE serializes and adds the passed value using big endian.
func (e *Encoder) AddBE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.BigEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write big endian: %w", err)
	}

	return nil
}

func (e *Encoder) writeHeader() error {
	if e.wroteHeader {
		return nil
	}

	if e.w == nil {
		return errNilWriter
	}

	e.wroteHeader = true

	if e.Header == nil {
		e.Header = &FileHeader{Version: ContainerVersion}
	}

	// riff ID
	err := e.AddBE(riff.RiffID)
	if err != nil {
		return err
	}

	// file size uint32, to update later on.
	err = e.AddLE(uint32(4294967295))
	if err != nil {
		return err
	}

	err = e.AddBE(FormFDAT)
	if err != nil {
		return err
	}

	return e.writeRawChunk(RawChunk{ID: CIDHeader, Data: encodeFileHeaderChunk(e.Header)})
}

// WriteParameter encodes and writes the passed parameter as a LIST/PARM
// chunk. Don't forget to Close() the encoder or the file won't be valid.
func (e *Encoder) WriteParameter(p *Parameter) error {
	if !e.wroteHeader {
		err := e.writeHeader()
		if err != nil {
			return err
		}
	}

	payload, err := encodeParamListPayload(p)
	if err != nil {
		return err
	}

	err = e.writeRawChunk(RawChunk{ID: CIDList, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to write parameter %q: %w", p.Name, err)
	}

	return nil
}

func (e *Encoder) writeRawChunk(chunk RawChunk) error {
	size := uint32(len(chunk.Data))

	err := e.AddBE(chunk.ID)
	if err != nil {
		return fmt.Errorf("failed to write raw chunk id %q: %w", chunk.ID, err)
	}

	err = e.AddLE(size)
	if err != nil {
		return fmt.Errorf("failed to write raw chunk size %q: %w", chunk.ID, err)
	}

	if len(chunk.Data) > 0 {
		n, err := e.w.Write(chunk.Data)
		e.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write raw chunk payload %q: %w", chunk.ID, err)
		}
	}

	if size%2 == 1 {
		n, err := e.w.Write([]byte{0})
		e.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write raw chunk padding %q: %w", chunk.ID, err)
		}
	}

	return nil
}

func (e *Encoder) writeUnknownChunks() error {
	if e.wroteRaw {
		return nil
	}

	e.wroteRaw = true

	for _, chunk := range e.UnknownChunks {
		err := e.writeRawChunk(chunk)
		if err != nil {
			return err
		}
	}

	return nil
}

// Close flushes the content to disk and makes sure the headers are up to
// date. Note that the underlying writer is NOT being closed.
func (e *Encoder) Close() error {
	if e == nil || e.w == nil {
		return nil
	}

	if !e.wroteHeader {
		err := e.writeHeader()
		if err != nil {
			return err
		}
	}

	// preserved chunks go at the end to not trip readers that stop after the
	// last parameter
	err := e.writeUnknownChunks()
	if err != nil {
		return fmt.Errorf("failed to write preserved chunks: %w", err)
	}

	// go back and write total size in header
	if _, err := e.w.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to file size position: %w", err)
	}

	err = e.AddLE(uint32(e.WrittenBytes) - 8)
	if err != nil {
		return fmt.Errorf("%w when writing the total written bytes", err)
	}

	// jump back to the end of the file.
	if _, err := e.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end of file: %w", err)
	}

	if f, ok := e.w.(*os.File); ok {
		return f.Sync()
	}

	return nil
}
