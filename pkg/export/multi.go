package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/regulomics/grnscope/pkg/graphview"
)

// SaveAll writes one snapshot per requested format next to basePath. Formats
// render concurrently; the first failure wins but all writes are attempted.
func SaveAll(basePath, title string, scene *graphview.Scene, formats []string) ([]string, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("no formats requested")
	}

	stem := strings.TrimSuffix(basePath, filepath.Ext(basePath))
	paths := make([]string, len(formats))

	var g errgroup.Group
	for i, format := range formats {
		format = strings.ToLower(strings.TrimPrefix(format, "."))
		path := stem + "." + format
		paths[i] = path
		g.Go(func() error {
			return SaveSnapshot(SnapshotOptions{
				Path:   path,
				Format: format,
				Title:  title,
				Scene:  scene,
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ParseFormats splits a comma-separated format list and validates it.
func ParseFormats(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty format list")
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(f, ".")))
		if f == "" {
			continue
		}
		switch f {
		case "svg", "png", "html":
			formats = append(formats, f)
		default:
			return nil, fmt.Errorf("unsupported format %q (want svg, png or html)", f)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("empty format list")
	}
	return formats, nil
}
