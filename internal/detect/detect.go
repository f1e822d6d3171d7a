package detect

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ErrBinaryNotFound reports that the detection binary is not on PATH.
var ErrBinaryNotFound = errors.New("detection binary not found")

// RunError reports a failed detection run, keeping the binary's stderr for
// diagnosis.
type RunError struct {
	Binary string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Binary, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Source is one detected source.
type Source struct {
	X    float64 `json:"x"`    // image x coordinate, pixels
	Y    float64 `json:"y"`    // image y coordinate, pixels
	Flux float64 `json:"flux"` // instrumental flux
}

// Catalog is the result of one detection run.
type Catalog struct {
	Sources []Source `json:"sources"`
}

// Runner executes the external source-detection binary.
type Runner struct {
	Binary string   // executable name or path
	Args   []string // extra arguments, passed before the catalog option
	Log    zerolog.Logger
}

// Available reports whether the binary can be resolved on PATH.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

// Run executes the binary against an image and parses the catalog it writes.
// The catalog file lives in a scratch directory that is removed before Run
// returns. Context cancellation kills the subprocess.
func (r *Runner) Run(ctx context.Context, imagePath string) (*Catalog, error) {
	if _, err := exec.LookPath(r.Binary); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBinaryNotFound, r.Binary)
	}
	if _, err := os.Stat(imagePath); err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}

	scratch, err := os.MkdirTemp("", "gammakit-detect-")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)
	catalogPath := filepath.Join(scratch, "catalog.cat")

	args := append(append([]string{imagePath}, r.Args...), "-CATALOG_NAME", catalogPath)
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.Log.Debug().Str("binary", r.Binary).Strs("args", args).Msg("running source detection")
	if err := cmd.Run(); err != nil {
		return nil, &RunError{Binary: r.Binary, Stderr: stderr.String(), Err: err}
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, &RunError{Binary: r.Binary, Stderr: stderr.String(),
			Err: fmt.Errorf("no catalog written: %w", err)}
	}

	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	r.Log.Info().Int("sources", len(cat.Sources)).Str("image", imagePath).Msg("source detection done")
	return cat, nil
}

// ParseCatalog parses an ASCII catalog: '#' lines are comments, data lines
// carry at least three whitespace-separated columns (x, y, flux). Extra
// columns are ignored.
func ParseCatalog(data []byte) (*Catalog, error) {
	cat := &Catalog{Sources: []Source{}}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, fmt.Errorf("catalog line %d: need at least 3 columns, got %d", line, len(fields))
		}
		var src Source
		var err error
		if src.X, err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil, fmt.Errorf("catalog line %d: bad x %q", line, fields[0])
		}
		if src.Y, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("catalog line %d: bad y %q", line, fields[1])
		}
		if src.Flux, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("catalog line %d: bad flux %q", line, fields[2])
		}
		cat.Sources = append(cat.Sources, src)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}
	return cat, nil
}
