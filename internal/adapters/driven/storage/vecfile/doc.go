// Package vecfile is a file-backed implementation of driven.VectorStore.
//
// One store owns one directory holding exactly two sibling artifacts
// that are always written together:
//
//   - metadata.json: the ordered chunk records plus the last-used
//     embedding model identifier
//   - vectors.bin: the embedding matrix as a versioned binary header
//     (magic, dimension, row count) followed by row-major
//     little-endian IEEE-754 float32 values
//
// Both artifacts are rewritten after every mutation via
// write-to-temp-then-rename, so a crash never leaves a partial file.
package vecfile
