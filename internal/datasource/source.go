// Package datasource detects and loads regulatory-network edge data from
// multiple source formats. It discovers TSV edge lists and SQLite databases,
// picks the freshest candidate, and normalizes everything into edge records.
package datasource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceType identifies the format of an edge data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (network.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeTSV is a tab-separated edge list
	SourceTypeTSV SourceType = "tsv"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite = 100
	PriorityTSV    = 50
)

// sqliteMagic is the first 16 bytes of every SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DataSource represents a candidate source of edge data
type DataSource struct {
	// Type identifies the source format
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339))
}

// preferredDBNames are SQLite filenames checked during discovery, in order.
var preferredDBNames = []string{"network.db", "edges.db", "grn.db"}

// preferredTSVNames are TSV filenames checked during discovery, in order.
var preferredTSVNames = []string{"network.tsv", "edges.tsv", "network.txt"}

// DetectSource classifies an explicit path into a DataSource. Content takes
// precedence over extension: a .tsv file carrying the SQLite magic is treated
// as a database.
func DetectSource(path string) (DataSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%s is a directory, expected a file", path)
	}

	src := DataSource{
		Path:    path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}

	if isSQLiteFile(path) {
		src.Type = SourceTypeSQLite
		src.Priority = PrioritySQLite
	} else {
		src.Type = SourceTypeTSV
		src.Priority = PriorityTSV
	}
	return src, nil
}

// isSQLiteFile sniffs the file header for the SQLite magic string.
func isSQLiteFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite")
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	n, err := f.Read(header)
	if err != nil || n < len(sqliteMagic) {
		return false
	}
	return bytes.Equal(header, sqliteMagic)
}

// DiscoverSources finds all candidate edge sources in a directory.
func DiscoverSources(dir string) ([]DataSource, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get current directory: %w", err)
		}
	}

	var sources []DataSource
	for _, name := range preferredDBNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		sources = append(sources, DataSource{
			Type:     SourceTypeSQLite,
			Path:     path,
			Priority: PrioritySQLite,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}
	for _, name := range preferredTSVNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		sources = append(sources, DataSource{
			Type:     SourceTypeTSV,
			Path:     path,
			Priority: PriorityTSV,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}

	// Freshest first; priority breaks ties.
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	return sources, nil
}

// SelectBestSource returns the preferred source from a discovered list.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	if len(sources) == 0 {
		return DataSource{}, fmt.Errorf("no data sources discovered")
	}
	return sources[0], nil
}
