// Package targets loads the optional allow-list of images a migration may rewrite.
//
// The list is a plain text file with one image reference per line. Blank lines
// and lines starting with '#' are ignored, as are lines that are not valid
// image references. Every accepted entry is stored both verbatim and without
// its tag, so an entry "nginx:1.25" also allows any other "nginx" tag.
package targets

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/cmig/pkg/image"
	log "github.com/lucas-albers-lz4/cmig/pkg/log"
)

const commentPrefix = "#"

// Set is a set of allowed image references. The zero value is an empty set,
// which allows every image.
type Set map[string]struct{}

// Load reads the target list at path from fs.
func Load(fs afero.Fs, path string) (Set, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, &ReadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	set, err := Parse(f)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	log.Debug("Loaded target images", "file", path, "entries", set.Len())
	return set, nil
}

// Parse reads a target list from r. Lines have no length limit.
func Parse(r io.Reader) (Set, error) {
	set := Set{}
	reader := bufio.NewReader(r)
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		set.addLine(raw)
		if err != nil {
			return set, nil
		}
	}
}

func (s Set) addLine(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return
	}
	if !s.Add(line) {
		log.Debug("Skipping invalid target image entry", "entry", truncate(line))
	}
}

// truncate shortens s for log output.
func truncate(s string) string {
	const maxLogged = 128
	if len(s) <= maxLogged {
		return s
	}
	return s[:maxLogged] + "..."
}

// Add inserts a valid image reference and its untagged base name.
// It reports false and leaves the set unchanged for invalid references.
func (s Set) Add(ref string) bool {
	if !image.IsValid(ref) {
		return false
	}
	s[ref] = struct{}{}
	s[image.BaseName(ref)] = struct{}{}
	return true
}

// Contains reports whether ref is in the set verbatim.
func (s Set) Contains(ref string) bool {
	_, ok := s[ref]
	return ok
}

// Len returns the number of stored strings, base names included.
func (s Set) Len() int {
	return len(s)
}

// Entries returns the stored strings in sorted order.
func (s Set) Entries() []string {
	entries := make([]string, 0, len(s))
	for entry := range s {
		entries = append(entries, entry)
	}
	sort.Strings(entries)
	return entries
}

// ShouldMigrate reports whether ref may be rewritten. An empty set allows
// everything; otherwise ref itself or its untagged base name must be listed.
func (s Set) ShouldMigrate(ref string) bool {
	if len(s) == 0 {
		return true
	}
	return s.Contains(ref) || s.Contains(image.BaseName(ref))
}
