package fdc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffFdatHdr   = errors.New("invalid riff/fdat header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

func parseContainerChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "FDAT" {
		return nil, errInvalidRiffFdatHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end
		if size%2 == 1 {
			offset++
		}
	}

	return chunks, nil
}

func parseContainerChunksFromFile(path string) ([]testChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return parseContainerChunks(data)
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

// paramSubChunk returns the payload of a sub-chunk inside a LIST/PARM chunk.
func paramSubChunk(c testChunk, subID string) ([]byte, bool) {
	if c.id != "LIST" || len(c.data) < 4 || string(c.data[:4]) != "PARM" {
		return nil, false
	}

	offset := 4
	for offset+8 <= len(c.data) {
		id := string(c.data[offset : offset+4])
		size := binary.LittleEndian.Uint32(c.data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(c.data) {
			return nil, false
		}

		if id == subID {
			return append([]byte(nil), c.data[offset:end]...), true
		}

		offset = end
		if size%2 == 1 {
			offset++
		}
	}

	return nil, false
}

// containerParamNames lists parameter names found in LIST/PARM chunks, in
// file order.
func containerParamNames(chunks []testChunk) []string {
	names := make([]string, 0, len(chunks))

	for _, c := range chunks {
		if name, ok := paramSubChunk(c, "pnam"); ok {
			names = append(names, string(name))
		}
	}

	return names
}

// containerParamData returns the pdat payload of the named parameter.
func containerParamData(chunks []testChunk, name string) ([]byte, bool) {
	for _, c := range chunks {
		got, ok := paramSubChunk(c, "pnam")
		if !ok || string(got) != name {
			continue
		}

		return paramSubChunk(c, "pdat")
	}

	return nil, false
}
