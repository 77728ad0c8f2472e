// Package archive lifts source files out of uploaded archive blobs. It
// recognizes zip, gzip-compressed tar, and plain tar containers, prunes
// ignored directories, and keeps only recognized source extensions.
package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/jward/lignin/internal/lang"
)

// Entry is one source file lifted out of an archive or directory walk. The
// path uses '/' separators with any leading "./" stripped.
type Entry struct {
	Path   string
	Source []byte
}

// ErrUnknownFormat is returned for blobs that are neither zip, tar.gz, nor tar.
var ErrUnknownFormat = errors.New("archive: unrecognized archive format")

// ErrTooLarge is returned when an archive's decompressed content exceeds the
// extraction budget.
var ErrTooLarge = errors.New("archive: decompressed content exceeds size limit")

// maxDecompressedBytes caps the total size Extract will inflate. The upload
// limit bounds only the compressed blob; a crafted archive (a gzip bomb)
// could otherwise expand without bound.
const maxDecompressedBytes = 512 << 20

// ignoredDirs are pruned from traversal entirely: version-control metadata,
// dependency caches, and build output.
var ignoredDirs = map[string]bool{
	".git":             true,
	".svn":             true,
	".hg":              true,
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"__pycache__":      true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"coverage":         true,
}

// IgnoredDir reports whether a directory name is excluded from traversal.
func IgnoredDir(name string) bool {
	return ignoredDirs[name]
}

// Extract unpacks an archive blob, detecting the container format from its
// magic bytes. It returns the source entries to analyze and the normalized
// names of ALL non-directory members, filtered or not: root detection must
// see the raw layout, since a top-level README alone means the archive has
// no single root folder.
func Extract(data []byte) ([]Entry, []string, error) {
	lim := &limitTracker{remaining: maxDecompressedBytes}
	switch {
	case bytes.HasPrefix(data, []byte("PK")):
		return extractZip(data, lim)
	case bytes.HasPrefix(data, []byte{0x1f, 0x8b}):
		return extractTarGz(data, lim)
	case looksLikeTar(data):
		return extractTar(tar.NewReader(bytes.NewReader(data)), lim)
	default:
		return nil, nil, ErrUnknownFormat
	}
}

func extractZip(data []byte, lim *limitTracker) ([]Entry, []string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("archive: open zip: %w", err)
	}

	var entries []Entry
	var allPaths []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := NormalizePath(f.Name)
		allPaths = append(allPaths, name)
		if !wanted(name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("archive: open %s: %w", f.Name, err)
		}
		source, err := lim.readAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("archive: read %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{Path: name, Source: source})
	}
	return entries, allPaths, nil
}

func extractTarGz(data []byte, lim *limitTracker) ([]Entry, []string, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("archive: open gzip: %w", err)
	}
	defer gz.Close()
	return extractTar(tar.NewReader(gz), lim)
}

func extractTar(tr *tar.Reader, lim *limitTracker) ([]Entry, []string, error) {
	var entries []Entry
	var allPaths []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return entries, allPaths, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("archive: read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeDir {
			continue
		}
		name := NormalizePath(hdr.Name)
		allPaths = append(allPaths, name)
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if !wanted(name) {
			continue
		}
		source, err := lim.readAll(tr)
		if err != nil {
			return nil, nil, fmt.Errorf("archive: read %s: %w", hdr.Name, err)
		}
		entries = append(entries, Entry{Path: name, Source: source})
	}
}

// limitTracker enforces a shared decompression budget across every member of
// one archive.
type limitTracker struct {
	remaining int64
}

// readAll drains r, failing with ErrTooLarge once the archive-wide budget
// is spent.
func (l *limitTracker) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.remaining+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.remaining {
		return nil, ErrTooLarge
	}
	l.remaining -= int64(len(data))
	return data, nil
}

// looksLikeTar checks for the ustar magic at offset 257.
func looksLikeTar(data []byte) bool {
	return len(data) > 262 && string(data[257:262]) == "ustar"
}

// wanted reports whether an entry should be analyzed: not under an ignored
// directory, and carrying a recognized source extension.
func wanted(name string) bool {
	if name == "" {
		return false
	}
	if dir := path.Dir(name); dir != "." {
		for _, segment := range strings.Split(dir, "/") {
			if ignoredDirs[segment] {
				return false
			}
		}
	}
	_, ok := lang.ForFile(name)
	return ok
}

// NormalizePath converts an entry name to '/' separators and strips leading
// "./" and "/".
func NormalizePath(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	return strings.TrimPrefix(name, "/")
}
