package fdc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

var (
	// FormFDAT is the RIFF form type for flight data containers.
	FormFDAT = [4]byte{'F', 'D', 'A', 'T'}
	// CIDHeader is the chunk ID for the file header chunk.
	CIDHeader = [4]byte{'f', 'h', 'd', 'r'}
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDParm is the LIST type for a parameter chunk.
	CIDParm = []byte{'P', 'A', 'R', 'M'}
	// CIDName is the sub-chunk ID for a parameter name.
	CIDName = [4]byte{'p', 'n', 'a', 'm'}
	// CIDMeta is the sub-chunk ID for parameter sampling metadata.
	CIDMeta = [4]byte{'p', 'm', 'e', 't'}
	// CIDData is the sub-chunk ID for parameter samples.
	CIDData = [4]byte{'p', 'd', 'a', 't'}
	// CIDMask is the sub-chunk ID for the validity mask.
	CIDMask = [4]byte{'p', 'm', 's', 'k'}
)

// Decoder handles the decoding of flight data container files.
type Decoder struct {
	r      io.ReadSeeker
	parser *riff.Parser
	chunks *ChunkRegistry

	// Header holds the decoded fhdr chunk.
	Header *FileHeader
	// Parameters holds the decoded parameters in file order.
	Parameters []*Parameter
	// UnknownChunks stores non-core chunks for optional round-trip writing.
	UnknownChunks []RawChunk

	err               error
	paramsRead        bool
	unknownChunkOrder int
}

// NewDecoder creates a decoder for the passed container reader.
// Note that the reader doesn't get rewinded as the container is processed.
func NewDecoder(r io.ReadSeeker) *Decoder {
	return &Decoder{
		r:      r,
		parser: riff.New(r),
		chunks: newDefaultChunkRegistry(),
	}
}

// Rewind resets the decoder to the beginning of the container so it can be
// read again.
func (d *Decoder) Rewind() error {
	_, err := d.r.Seek(0, io.SeekStart)
	if err != nil {
		return fmt.Errorf("failed to seek back to the start %w", err)
	}

	// we have to use a new parser since it's read only and can't be seeked
	d.parser = riff.New(d.r)
	d.err = nil
	d.Header = nil
	d.Parameters = nil
	d.UnknownChunks = nil
	d.paramsRead = false
	d.unknownChunkOrder = 0

	return nil
}

// Err returns the first non-EOF error that was encountered by the Decoder.
func (d *Decoder) Err() error {
	if errors.Is(d.err, io.EOF) {
		return nil
	}

	return d.err
}

// EOF returns positively if the underlying reader reached the end of file.
func (d *Decoder) EOF() bool {
	if d == nil || errors.Is(d.err, io.EOF) {
		return true
	}

	return false
}

// IsValidFile verifies that the file is a readable flight data container.
func (d *Decoder) IsValidFile() bool {
	if err := d.ReadAll(); err != nil {
		return false
	}

	if d.Header == nil {
		return false
	}

	if d.Header.Version == 0 || d.Header.Version > ContainerVersion {
		return false
	}

	return true
}

// ReadInfo reads the underlying reader until the file header is parsed.
// This method is safe to call multiple times.
func (d *Decoder) ReadInfo() {
	d.err = d.readHeaders()
}

// ReadAll parses the remaining chunks of the file, populating Parameters and
// UnknownChunks. The entire file will be read and should be rewinded if more
// data must be accessed.
func (d *Decoder) ReadAll() error {
	if d.paramsRead {
		return d.Err()
	}

	d.ReadInfo()

	if d.Err() != nil {
		return d.Err()
	}

	d.Parameters = nil
	d.UnknownChunks = nil
	d.unknownChunkOrder = 0
	d.paramsRead = true

	var (
		chunk *riff.Chunk
		err   error
	)

	for {
		chunk, err = d.NextChunk()
		if err != nil {
			break
		}

		d.unknownChunkOrder++

		handled, handleErr := d.decodeChunkViaRegistry(chunk)
		if handleErr != nil && !errors.Is(handleErr, io.EOF) {
			d.err = handleErr

			return handleErr
		}

		if !handled {
			if captureErr := d.captureUnknownChunk(chunk); captureErr != nil {
				d.err = captureErr

				return captureErr
			}
		}

		if padErr := d.skipChunkPadding(chunk); padErr != nil {
			d.err = padErr

			return padErr
		}
	}

	return d.Err()
}

// ParameterNames returns the names of the decoded parameters in file order.
func (d *Decoder) ParameterNames() []string {
	if d == nil {
		return nil
	}

	if !d.paramsRead {
		if err := d.ReadAll(); err != nil {
			return nil
		}
	}

	names := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		names = append(names, p.Name)
	}

	return names
}

// Parameter returns the first decoded parameter with the passed name.
func (d *Decoder) Parameter(name string) (*Parameter, bool) {
	if d == nil {
		return nil, false
	}

	if !d.paramsRead {
		if err := d.ReadAll(); err != nil {
			return nil, false
		}
	}

	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}

	return nil, false
}

// RawChunks returns a copy of preserved non-core chunks.
func (d *Decoder) RawChunks() []RawChunk {
	if d == nil {
		return nil
	}

	return cloneRawChunks(d.UnknownChunks)
}

// SetRawChunks replaces preserved non-core chunks with the provided set.
func (d *Decoder) SetRawChunks(chunks []RawChunk) {
	if d == nil {
		return
	}

	d.UnknownChunks = cloneRawChunks(chunks)
}

// NextChunk returns the next available chunk. A prior decode error is sticky
// and keeps being returned.
func (d *Decoder) NextChunk() (*riff.Chunk, error) {
	if d.Err() != nil {
		return nil, d.Err()
	}

	if d.err = d.readHeaders(); d.err != nil {
		d.err = fmt.Errorf("failed to read header - %w", d.err)
		return nil, d.err
	}

	var (
		id   [4]byte
		size uint32
	)

	id, size, d.err = d.parser.IDnSize()
	if d.err != nil {
		d.err = fmt.Errorf("error reading chunk header - %w", d.err)
		return nil, d.err
	}

	chnk := &riff.Chunk{
		ID:   id,
		Size: int(size),
		R:    io.LimitReader(d.r, int64(size)),
	}

	return chnk, d.err
}

// skipChunkPadding consumes the zero byte that follows an odd-sized chunk
// payload. RIFF chunks are word aligned and the pad byte is not counted in
// the chunk header's size.
func (d *Decoder) skipChunkPadding(chunk *riff.Chunk) error {
	if chunk == nil || chunk.Size%2 == 0 {
		return nil
	}

	var pad [1]byte

	_, err := io.ReadFull(d.r, pad[:])
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to skip chunk padding - %w", err)
	}

	return nil
}

// String implements the Stringer interface.
func (d *Decoder) String() string {
	if d == nil || d.Header == nil {
		return "unread flight data container"
	}

	return fmt.Sprintf("FDAT v%d - recording %s (%s) - %g seconds",
		d.Header.Version, d.Header.RecordingID, d.Header.Tail, d.Header.Duration)
}

// readHeaders is safe to call multiple times.
func (d *Decoder) readHeaders() error {
	if d == nil || d.Header != nil {
		return nil
	}

	id, size, err := d.parser.IDnSize()
	if err != nil {
		return fmt.Errorf("failed to read chunk ID and size: %w", err)
	}

	d.parser.ID = id
	if d.parser.ID != riff.RiffID {
		return fmt.Errorf("%s - %w", d.parser.ID, riff.ErrFmtNotSupported)
	}

	d.parser.Size = size

	err = binary.Read(d.r, binary.BigEndian, &d.parser.Format)
	if err != nil {
		return fmt.Errorf("failed to read format: %w", err)
	}

	if d.parser.Format != FormFDAT {
		return fmt.Errorf("%s - %w", d.parser.Format, ErrNotContainer)
	}

	chunk, err := d.parser.NextChunk()
	if err != nil {
		return fmt.Errorf("failed to read the header chunk: %w", err)
	}

	if chunk.ID != CIDHeader {
		return fmt.Errorf("%s - %w", chunk.ID, ErrHeaderChunkMissing)
	}

	handled, err := d.decodeChunkViaRegistry(chunk)
	if err != nil {
		return err
	}

	if !handled || d.Header == nil {
		return ErrHeaderChunkMissing
	}

	if d.Header.Version == 0 || d.Header.Version > ContainerVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Header.Version)
	}

	return nil
}

func (d *Decoder) decodeChunkViaRegistry(chunk *riff.Chunk) (bool, error) {
	if d == nil || chunk == nil {
		return false, nil
	}

	if d.chunks == nil {
		d.chunks = newDefaultChunkRegistry()
	}

	return d.chunks.Decode(d, chunk)
}

func (d *Decoder) captureUnknownChunk(chunk *riff.Chunk) error {
	if d == nil || chunk == nil {
		return nil
	}

	data, err := io.ReadAll(chunk)
	if err != nil {
		return fmt.Errorf("failed to read unknown chunk %s: %w", chunk.ID, err)
	}

	chunk.Drain()

	d.UnknownChunks = append(d.UnknownChunks, RawChunk{
		ID:    chunk.ID,
		Size:  uint32(len(data)),
		Data:  data,
		Order: d.unknownChunkOrder,
	})

	return nil
}
