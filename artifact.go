package fdc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Parameter artifacts persist a single in-memory parameter to disk outside a
// full container, e.g. to stash an expensive-to-build fixture. Layout: magic
// "FDPA", version u16, payload length u32, then a PARM list payload.

const artifactVersion = 1

var (
	artifactMagic = [4]byte{'F', 'D', 'P', 'A'}

	// ErrArtifactMagic is returned when a file is not a parameter artifact.
	ErrArtifactMagic = errors.New("not a parameter artifact")
	// ErrArtifactVersion is returned for artifact versions this package
	// can't read.
	ErrArtifactVersion = errors.New("unsupported parameter artifact version")

	errArtifactTruncated = errors.New("parameter artifact truncated")
)

// SaveParameter writes the parameter to a standalone artifact file.
func SaveParameter(path string, p *Parameter) error {
	payload, err := encodeParamListPayload(p)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	buf.Write(artifactMagic[:])

	var scratch [4]byte

	binary.LittleEndian.PutUint16(scratch[:2], artifactVersion)
	buf.Write(scratch[:2])

	binary.LittleEndian.PutUint32(scratch[:], uint32(len(payload)))
	buf.Write(scratch[:])
	buf.Write(payload)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s - %w", path, err)
	}

	return nil
}

// LoadParameter reads a parameter back from an artifact file.
func LoadParameter(path string) (*Parameter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s - %w", path, err)
	}

	if len(data) < 10 {
		return nil, fmt.Errorf("%s - %w", path, errArtifactTruncated)
	}

	if !bytes.Equal(data[:4], artifactMagic[:]) {
		return nil, fmt.Errorf("%s - %w", path, ErrArtifactMagic)
	}

	version := binary.LittleEndian.Uint16(data[4:6])
	if version == 0 || version > artifactVersion {
		return nil, fmt.Errorf("%w: %d", ErrArtifactVersion, version)
	}

	size := binary.LittleEndian.Uint32(data[6:10])
	if int(size) > len(data)-10 {
		return nil, fmt.Errorf("%s - %w", path, errArtifactTruncated)
	}

	return decodeParamListPayload(data[10 : 10+int(size)])
}
