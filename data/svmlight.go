package data

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hogwildml/hogwild/sgd"
)

// ReadSVMLight loads an svmlight-like sparse text file, one example per
// line: `y idx1:v1 idx2:v2 ...`. Feature indices are 1-based on disk and
// converted to 0-based in memory; y in {0, -1, +1} with 0 treated as -1,
// as described in SPEC_FULL.md §6. Blank lines and lines beginning with
// '#' are skipped.
func ReadSVMLight(r io.Reader) (examples []sgd.Example, dim int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	type raw struct {
		y   float64
		idx []uint32
		val []float64
	}
	var records []raw
	maxDim := 0

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		yRaw, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("data: line %d: parsing label: %w", lineNo, err)
		}
		y := yRaw
		if y == 0 {
			y = -1
		}

		idxVals := make([]struct {
			idx uint32
			val float64
		}, 0, len(fields)-1)
		for _, tok := range fields[1:] {
			parts := strings.SplitN(tok, ":", 2)
			if len(parts) != 2 {
				return nil, 0, fmt.Errorf("data: line %d: malformed feature token %q", lineNo, tok)
			}
			i, err := strconv.ParseUint(parts[0], 10, 32)
			if err != nil {
				return nil, 0, fmt.Errorf("data: line %d: parsing feature index: %w", lineNo, err)
			}
			v, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return nil, 0, fmt.Errorf("data: line %d: parsing feature value: %w", lineNo, err)
			}
			zeroBased := uint32(i - 1)
			idxVals = append(idxVals, struct {
				idx uint32
				val float64
			}{zeroBased, v})
			if int(zeroBased)+1 > maxDim {
				maxDim = int(zeroBased) + 1
			}
		}
		sort.Slice(idxVals, func(a, b int) bool { return idxVals[a].idx < idxVals[b].idx })

		idx := make([]uint32, len(idxVals))
		val := make([]float64, len(idxVals))
		for i, iv := range idxVals {
			idx[i] = iv.idx
			val[i] = iv.val
		}
		records = append(records, raw{y: y, idx: idx, val: val})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("data: scanning svmlight file: %w", err)
	}

	out := make([]sgd.Example, len(records))
	for i, rec := range records {
		out[i] = sgd.Example{X: sgd.NewSparseVector(rec.idx, rec.val, maxDim), Y: rec.y}
	}
	return out, maxDim, nil
}

// WriteSVMLight writes examples in the svmlight-like text format,
// converting 0-based in-memory indices back to 1-based on disk.
func WriteSVMLight(w io.Writer, examples []sgd.Example) error {
	bw := bufio.NewWriter(w)
	for _, ex := range examples {
		if _, err := fmt.Fprintf(bw, "%g", ex.Y); err != nil {
			return fmt.Errorf("data: writing label: %w", err)
		}
		var werr error
		ex.X.Each(func(idx int, val float64) {
			if werr != nil {
				return
			}
			if _, err := fmt.Fprintf(bw, " %d:%g", idx+1, val); err != nil {
				werr = err
			}
		})
		if werr != nil {
			return fmt.Errorf("data: writing features: %w", werr)
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return fmt.Errorf("data: writing newline: %w", err)
		}
	}
	return bw.Flush()
}
