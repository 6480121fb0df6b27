// Package loader reads regulatory-network edge files (tab-separated values).
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/regulomics/grnscope/pkg/debug"
	"github.com/regulomics/grnscope/pkg/model"
)

// DataEnvVar overrides data file discovery when set.
const DataEnvVar = "GRN_DATA"

// PreferredDataNames defines the priority order when probing a directory for
// an edge file.
var PreferredDataNames = []string{"network.tsv", "edges.tsv", "network.txt"}

// Column header aliases, matched case-insensitively after trimming.
var (
	regulatorAliases     = []string{"regulator", "tf", "source", "regulator_systematic"}
	targetAliases        = []string{"target", "gene", "target_systematic"}
	confidenceAliases    = []string{"confidence", "value", "weight", "score"}
	regulatorNameAliases = []string{"regulator_common", "regulatorcommonname", "tf_name", "regulator_name"}
	targetNameAliases    = []string{"target_common", "targetcommonname", "gene_name", "target_name"}
)

// LoadError wraps a fatal failure to fetch or parse the edge file. The viewer
// treats it as unrecoverable: the error is shown and the program exits.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load network data from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Result carries the parsed edges plus parse bookkeeping.
type Result struct {
	Edges   []model.EdgeRecord
	Skipped int // malformed rows silently dropped (missing id, bad confidence)
}

// FindDataPath locates the edge file. An explicit path wins, then GRN_DATA,
// then the preferred names tried in dir (cwd when dir is empty).
func FindDataPath(explicit, dir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(DataEnvVar); env != "" {
		return env, nil
	}
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	for _, name := range PreferredDataNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path, nil
		}
	}
	return "", fmt.Errorf("no edge file found in %s (tried %s)", dir, strings.Join(PreferredDataNames, ", "))
}

// LoadFile reads and parses the edge file at path.
func LoadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return Result{}, &LoadError{Path: path, Err: err}
	}
	debug.Log("loaded %d edges from %s (%d rows skipped)", len(res.Edges), path, res.Skipped)
	return res, nil
}

// columns maps each field to its column position, -1 when absent.
type columns struct {
	regulator     int
	target        int
	confidence    int
	regulatorName int
	targetName    int
}

// Parse reads tab-separated edge rows from r. The first non-empty line must be
// a header naming at least a regulator, target, and confidence column. Rows
// with a missing id or a non-numeric confidence are skipped, not reported
// individually.
func Parse(r io.Reader) (Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	cols, err := readHeader(scanner)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		reg := fieldAt(fields, cols.regulator)
		tgt := fieldAt(fields, cols.target)
		if reg == "" || tgt == "" {
			res.Skipped++
			continue
		}
		conf, err := strconv.ParseFloat(fieldAt(fields, cols.confidence), 64)
		if err != nil {
			res.Skipped++
			continue
		}

		res.Edges = append(res.Edges, model.EdgeRecord{
			Regulator:     reg,
			Target:        tgt,
			RegulatorName: fieldAt(fields, cols.regulatorName),
			TargetName:    fieldAt(fields, cols.targetName),
			Confidence:    conf,
		})
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("read edge rows: %w", err)
	}
	return res, nil
}

func readHeader(scanner *bufio.Scanner) (columns, error) {
	cols := columns{regulator: -1, target: -1, confidence: -1, regulatorName: -1, targetName: -1}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		for i, raw := range strings.Split(line, "\t") {
			name := strings.ToLower(strings.TrimSpace(raw))
			switch {
			case cols.regulator < 0 && matchesAlias(name, regulatorAliases):
				cols.regulator = i
			case cols.target < 0 && matchesAlias(name, targetAliases):
				cols.target = i
			case cols.confidence < 0 && matchesAlias(name, confidenceAliases):
				cols.confidence = i
			case cols.regulatorName < 0 && matchesAlias(name, regulatorNameAliases):
				cols.regulatorName = i
			case cols.targetName < 0 && matchesAlias(name, targetNameAliases):
				cols.targetName = i
			}
		}
		if cols.regulator < 0 || cols.target < 0 || cols.confidence < 0 {
			return cols, fmt.Errorf("header row missing required columns (need regulator, target, confidence): %q", line)
		}
		return cols, nil
	}
	if err := scanner.Err(); err != nil {
		return cols, fmt.Errorf("read header: %w", err)
	}
	return cols, fmt.Errorf("empty input: no header row")
}

func matchesAlias(name string, aliases []string) bool {
	for _, a := range aliases {
		if name == a {
			return true
		}
	}
	return false
}

func fieldAt(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}
