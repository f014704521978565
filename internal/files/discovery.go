// Package files discovers the 835 remittance files a run processes.
// Remittance files are ordered by the date token embedded in their
// filenames so batches replay in the order payers issued them.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// remittanceExtensions are the file extensions treated as 835 remittance files
var remittanceExtensions = map[string]bool{
	".835": true,
	".txt": true,
	".edi": true,
}

// filenameDatePatterns match date tokens commonly embedded in remittance
// filenames, tried in order.
var filenameDatePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`), "2006-01-02"},
	{regexp.MustCompile(`(\d{8})`), "20060102"},
}

// Find835Files finds all remittance files in the specified directory,
// sorted by the date embedded in the filename (oldest first). Files without
// a recognizable date sort last, alphabetically.
func (d *Discovery) Find835Files(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !remittanceExtensions[ext] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   false,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		di, oki := FilenameDate(files[i].Name)
		dj, okj := FilenameDate(files[j].Name)
		switch {
		case oki && okj && !di.Equal(dj):
			return di.Before(dj)
		case oki != okj:
			return oki
		default:
			return files[i].Name < files[j].Name
		}
	})

	return files, nil
}

// FilenameDate extracts a date token embedded in a remittance filename
func FilenameDate(name string) (time.Time, bool) {
	for _, p := range filenameDatePatterns {
		if m := p.re.FindString(name); m != "" {
			if t, err := time.Parse(p.layout, m); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

