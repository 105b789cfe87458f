// Package fdc provides encoding and decoding utilities for flight data
// container (FDC) files.
//
// An FDC file is a RIFF form of type FDAT holding a file header chunk (fhdr)
// and one LIST/PARM chunk per recorded parameter. Each parameter carries a
// name, sampling metadata, little-endian float64 samples, and an optional
// validity mask. Chunks the package does not recognize are preserved for
// round-trip writing.
//
// The package also implements Strip, which copies a requested subset of
// parameters into a freshly written container, the operation exposed by the
// fdstrip command.
package fdc
