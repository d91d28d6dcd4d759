package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/poiesic/cinerag/core"
)

// Key prefixes for different data types
const (
	moviePrefix      = "movrec"
	movieGenrePrefix = "movrecg"
	movieYearPrefix  = "movrecy"
)

// makeMovieKey generates a key for a movie by ID.
func makeMovieKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", moviePrefix, id))
}

// makeGenreKey generates a composite key for the genre index.
// Format: prefix:genre:id
func makeGenreKey(genre string, id core.ID) []byte {
	prefix := movieGenrePrefix + ":" + strings.ToLower(genre) + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialGenreKey generates a partial key for genre queries.
// Format: prefix:genre:
func makePartialGenreKey(genre string) []byte {
	return []byte(movieGenrePrefix + ":" + strings.ToLower(genre) + ":")
}

// makeYearKey generates a composite key for the year index.
// Format: prefix:year:id
func makeYearKey(year int, id core.ID) []byte {
	prefix := movieYearPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for year + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(year))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialYearKey generates a partial key for year range queries.
// Format: prefix:year
func makePartialYearKey(year int) []byte {
	prefix := movieYearPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for year
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(year))
	return buf
}
