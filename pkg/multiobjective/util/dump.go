package util

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/intob/moea/pkg/multiobjective/framework"
)

// DumpStep writes points to dir/step_NNNN.dat, one point per line with
// space separated coordinates, for external plotting tools.
func DumpStep(dir string, step int, points []framework.ObjectiveSpacePoint) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("step_%04d.dat", step))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range points {
		for i, v := range p {
			if i > 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "%20v", v)
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, f.Close()
}

// ReadPoints parses a file written by DumpStep. Blank lines and lines
// starting with # are skipped.
func ReadPoints(path string) ([]framework.ObjectiveSpacePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []framework.ObjectiveSpacePoint
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := ParsePoint(strings.Fields(text))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if len(points) > 0 && len(p) != len(points[0]) {
			return nil, fmt.Errorf("%s:%d: expected %d coordinates, got %d", path, line, len(points[0]), len(p))
		}
		points = append(points, p)
	}
	return points, scanner.Err()
}

// ParsePoint parses coordinates given as separate strings.
func ParsePoint(fields []string) (framework.ObjectiveSpacePoint, error) {
	p := make(framework.ObjectiveSpacePoint, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		p[i] = v
	}
	return p, nil
}
