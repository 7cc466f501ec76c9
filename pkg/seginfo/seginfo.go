// Package seginfo discovers and names log files on disk.
//
// Filename format: <file_id>.<ext>, e.g. "0.ignite", "1.ignite". There is
// no prefix, timestamp, or zero-padding: file ids are plain decimal
// integers, and ascending numeric order is recovered by parsing rather
// than by lexicographic sort (a 10-digit id would otherwise sort before a
// 2-digit one lexicographically).
package seginfo

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/iamNilotpal/ignite/pkg/filesys"
)

// GenerateName returns the file name for file id id with the given
// extension (without a leading dot).
func GenerateName(id uint64, extension string) string {
	return fmt.Sprintf("%d.%s", id, extension)
}

// ParseFileID extracts the file id from a log file's path, validating that
// its extension matches extension. It returns false for any name that
// does not parse as "<decimal>.<extension>".
func ParseFileID(path, extension string) (uint64, bool) {
	_, name := filepath.Split(path)

	suffix := "." + extension
	if !strings.HasSuffix(name, suffix) {
		return 0, false
	}

	idPart := strings.TrimSuffix(name, suffix)
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// ListFileIDs discovers every log file in dir matching extension and
// returns their file ids and full paths, sorted in ascending id order.
// Entries that don't match the naming convention are silently ignored.
func ListFileIDs(dir, extension string) ([]uint64, map[uint64]string, error) {
	searchPattern := filepath.Join(dir, "*."+extension)

	matches, err := filesys.ReadDir(searchPattern)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read log directory with pattern %s: %w", searchPattern, err)
	}

	ids := make([]uint64, 0, len(matches))
	paths := make(map[uint64]string, len(matches))

	for _, path := range matches {
		id, ok := ParseFileID(path, extension)
		if !ok {
			continue
		}
		ids = append(ids, id)
		paths[id] = path
	}

	slices.Sort(ids)
	return ids, paths, nil
}
