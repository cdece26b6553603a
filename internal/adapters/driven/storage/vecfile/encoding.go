package vecfile

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/helpdesk-labs/helpdesk-cli/internal/core/domain"
)

// Vector artifact header: magic ("HVEC"), format version, dimension
// and row count, all little-endian. The matrix shape is recoverable
// from the header alone.
const (
	vectorMagic   = "HVEC"
	formatVersion = uint32(1)
	headerSize    = 4 + 4 + 4 + 4
)

// encodeMatrix serialises the embedding matrix. An empty matrix
// encodes as a bare header with zero rows.
func encodeMatrix(vectors [][]float32, dim int) []byte {
	out := make([]byte, headerSize, headerSize+len(vectors)*dim*4)
	copy(out[0:4], vectorMagic)
	binary.LittleEndian.PutUint32(out[4:8], formatVersion)
	binary.LittleEndian.PutUint32(out[8:12], uint32(dim))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(vectors)))

	buf := make([]byte, 4)
	for _, row := range vectors {
		for _, v := range row {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
			out = append(out, buf...)
		}
	}
	return out
}

// decodeMatrix restores the embedding matrix from the vector artifact.
// Any structural problem is domain.ErrStoreCorrupt: this file is only
// ever produced by encodeMatrix, so damage means the pair of artifacts
// can no longer be trusted.
func decodeMatrix(data []byte) ([][]float32, int, error) {
	if len(data) < headerSize {
		return nil, 0, fmt.Errorf("%w: vector artifact truncated (%d bytes)", domain.ErrStoreCorrupt, len(data))
	}
	if string(data[0:4]) != vectorMagic {
		return nil, 0, fmt.Errorf("%w: bad vector artifact magic", domain.ErrStoreCorrupt)
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != formatVersion {
		return nil, 0, fmt.Errorf("%w: unsupported vector format version %d", domain.ErrStoreCorrupt, v)
	}

	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	rows := int(binary.LittleEndian.Uint32(data[12:16]))

	if rows == 0 {
		return nil, 0, nil
	}
	if dim == 0 {
		return nil, 0, fmt.Errorf("%w: %d rows with zero dimension", domain.ErrStoreCorrupt, rows)
	}
	if want := headerSize + rows*dim*4; len(data) != want {
		return nil, 0, fmt.Errorf("%w: vector artifact has %d bytes, expected %d", domain.ErrStoreCorrupt, len(data), want)
	}

	vectors := make([][]float32, rows)
	off := headerSize
	for r := 0; r < rows; r++ {
		row := make([]float32, dim)
		for c := 0; c < dim; c++ {
			row[c] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[r] = row
	}
	return vectors, dim, nil
}
