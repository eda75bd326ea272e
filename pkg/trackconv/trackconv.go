// Package trackconv turns plain-text tractography exports into a FiberSet.
//
// Each regular file holds one fiber: one vertex per line as three
// whitespace-separated numbers ("x y z"). Blank lines are skipped.
package trackconv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sanonone/fibermap/pkg/fiber"
)

// ErrMalformedTrack indicates a line that is not three finite numbers.
var ErrMalformedTrack = errors.New("malformed track line")

// Options filters the files ReadDir visits.
type Options struct {
	// IncludePatterns are matched against the file name. Empty accepts everything.
	IncludePatterns []string
	// ExcludePatterns are matched against the file name.
	ExcludePatterns []string
}

// ReadTrack parses a single track stream.
func ReadTrack(r io.Reader) (fiber.Fiber, error) {
	f := fiber.Fiber{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := parseVertex(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		f = append(f, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseVertex(text string) (fiber.Vertex, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return fiber.Vertex{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformedTrack, len(fields))
	}
	var xyz [3]float32
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fiber.Vertex{}, fmt.Errorf("%w: field %d %q", ErrMalformedTrack, i+1, s)
		}
		xyz[i] = float32(v)
	}
	return fiber.Vertex{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// ReadFile parses the track file at path.
func ReadFile(path string) (fiber.Fiber, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := ReadTrack(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ReadDir walks root recursively in lexical order and returns one fiber per
// accepted file. Hidden files and directories are skipped. Any unreadable or
// malformed file aborts the conversion.
func ReadDir(ctx context.Context, root string, opts Options) (fiber.FiberSet, error) {
	fs := fiber.FiberSet{}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(name, ".") || !opts.accepts(name) {
			return nil
		}

		f, err := ReadFile(path)
		if err != nil {
			return err
		}
		fs = append(fs, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (o Options) accepts(name string) bool {
	if len(o.IncludePatterns) > 0 {
		matched := false
		for _, pattern := range o.IncludePatterns {
			if ok, _ := filepath.Match(pattern, name); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, pattern := range o.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return false
		}
	}
	return true
}
