package data

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hogwildml/hogwild/sgd"
)

// ReadASCII loads a plain dense-ASCII convenience format: one example per
// line, `y v1 v2 ... vd` space-separated, all examples sharing the same
// dimension d = (fields per line) - 1. This supplements the distilled
// spec's binary/svmlight formats with the original implementation's
// third loader, ascii_file.hh, pinned here to an exact grammar.
func ReadASCII(r io.Reader) (examples []sgd.Example, dim int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		y, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("data: line %d: parsing label: %w", lineNo, err)
		}
		values := make([]float64, len(fields)-1)
		for i, tok := range fields[1:] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("data: line %d: parsing value %d: %w", lineNo, i, err)
			}
			values[i] = v
		}
		if dim == 0 {
			dim = len(values)
		} else if len(values) != dim {
			return nil, 0, fmt.Errorf("data: line %d: got %d features, want %d", lineNo, len(values), dim)
		}
		examples = append(examples, sgd.Example{X: sgd.NewDenseVector(values), Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("data: scanning ascii file: %w", err)
	}
	return examples, dim, nil
}

// WriteASCII writes examples in the dense-ASCII convenience format.
func WriteASCII(w io.Writer, examples []sgd.Example, dim int) error {
	bw := bufio.NewWriter(w)
	for _, ex := range examples {
		dense := make([]float64, dim)
		ex.X.Each(func(idx int, val float64) { dense[idx] = val })

		if _, err := fmt.Fprintf(bw, "%g", ex.Y); err != nil {
			return fmt.Errorf("data: writing label: %w", err)
		}
		for _, v := range dense {
			if _, err := fmt.Fprintf(bw, " %g", v); err != nil {
				return fmt.Errorf("data: writing value: %w", err)
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return fmt.Errorf("data: writing newline: %w", err)
		}
	}
	return bw.Flush()
}
