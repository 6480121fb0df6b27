package datasource

import (
	"fmt"
	"os"

	"github.com/regulomics/grnscope/pkg/loader"
)

// LoadEdges resolves a data path and loads edges from it. The explicit path
// wins; otherwise the GRN_DATA environment variable, then well-known filenames
// in dir. An explicit path may be TSV or SQLite; format is sniffed, not
// assumed from the extension.
func LoadEdges(explicit, dir string) (loader.Result, string, error) {
	if explicit != "" {
		src, err := DetectSource(explicit)
		if err != nil {
			return loader.Result{}, "", err
		}
		result, err := LoadFromSource(src)
		return result, src.Path, err
	}

	// GRN_DATA names one file; it wins outright, like an explicit path.
	if env := os.Getenv(loader.DataEnvVar); env != "" {
		src, err := DetectSource(env)
		if err != nil {
			return loader.Result{}, "", err
		}
		result, err := LoadFromSource(src)
		return result, src.Path, err
	}

	// Directory scan: merge the well-known TSV names with SQLite discovery so
	// a fresher network.db still wins over network.tsv.
	if path, err := loader.FindDataPath("", dir); err == nil {
		tsvSrc, derr := DetectSource(path)
		if derr == nil {
			sources, _ := DiscoverSources(dir)
			sources = append(sources, tsvSrc)
			best, serr := SelectBestSource(sources)
			if serr == nil {
				result, lerr := LoadFromSource(best)
				return result, best.Path, lerr
			}
		}
		result, lerr := loader.LoadFile(path)
		return result, path, lerr
	}

	sources, err := DiscoverSources(dir)
	if err != nil {
		return loader.Result{}, "", err
	}
	best, err := SelectBestSource(sources)
	if err != nil {
		return loader.Result{}, "", fmt.Errorf("no network data found: %w", err)
	}
	result, err := LoadFromSource(best)
	return result, best.Path, err
}

// LoadFromSource loads edges from a specific DataSource, dispatching to the
// appropriate reader based on source type.
func LoadFromSource(source DataSource) (loader.Result, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return loader.Result{}, fmt.Errorf("open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadEdges()

	case SourceTypeTSV:
		return loader.LoadFile(source.Path)

	default:
		return loader.Result{}, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
