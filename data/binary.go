// Package data implements the file formats the trainer's CLI front end
// loads examples from: a binary sparse/dense format, svmlight-like text,
// and a plain-ASCII dense convenience format.
package data

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hogwildml/hogwild/sgd"
)

// Binary file type tags, matching SPEC_FULL.md §6 exactly.
const (
	binaryDense  uint8 = 0x01
	binarySparse uint8 = 0x02
)

// ReadBinary loads a binary feature file as described in SPEC_FULL.md
// §6. It auto-detects sparse vs dense from the one-byte header.
func ReadBinary(r io.Reader) (examples []sgd.Example, dim int, err error) {
	br := bufio.NewReader(r)

	var header uint8
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("data: reading binary header: %w", err)
	}

	switch header {
	case binaryDense:
		return readBinaryDense(br)
	case binarySparse:
		return readBinarySparse(br)
	default:
		return nil, 0, fmt.Errorf("data: unknown binary file header byte 0x%02x", header)
	}
}

func readBinaryDense(br *bufio.Reader) ([]sgd.Example, int, error) {
	var numFeatures uint32
	if err := binary.Read(br, binary.LittleEndian, &numFeatures); err != nil {
		return nil, 0, fmt.Errorf("data: reading dense feature count: %w", err)
	}
	dim := int(numFeatures)

	var examples []sgd.Example
	for {
		var class int8
		if err := binary.Read(br, binary.LittleEndian, &class); err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("data: reading dense record class: %w", err)
		}
		values := make([]float64, dim)
		if err := binary.Read(br, binary.LittleEndian, &values); err != nil {
			return nil, 0, fmt.Errorf("data: reading dense record values: %w", err)
		}
		examples = append(examples, sgd.Example{
			X: sgd.NewDenseVector(values),
			Y: classToLabel(class),
		})
	}
	return examples, dim, nil
}

// rawSparseRecord holds one sparse record's class and (idx,val) pairs
// before the file's overall dimension is known — the binary sparse
// format carries no file-level dimension header (unlike the dense
// format), so the final Vector dimension can only be fixed once the
// whole file has been scanned.
type rawSparseRecord struct {
	class int8
	idx   []uint32
	val   []float64
}

func readBinarySparse(br *bufio.Reader) ([]sgd.Example, int, error) {
	var records []rawSparseRecord
	maxDim := 0

	for {
		var class int8
		if err := binary.Read(br, binary.LittleEndian, &class); err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("data: reading sparse record class: %w", err)
		}
		var numFeatures uint32
		if err := binary.Read(br, binary.LittleEndian, &numFeatures); err != nil {
			return nil, 0, fmt.Errorf("data: reading sparse record feature count: %w", err)
		}

		idx := make([]uint32, numFeatures)
		val := make([]float64, numFeatures)
		for i := uint32(0); i < numFeatures; i++ {
			if err := binary.Read(br, binary.LittleEndian, &idx[i]); err != nil {
				return nil, 0, fmt.Errorf("data: reading sparse feature index: %w", err)
			}
			if err := binary.Read(br, binary.LittleEndian, &val[i]); err != nil {
				return nil, 0, fmt.Errorf("data: reading sparse feature value: %w", err)
			}
			if int(idx[i])+1 > maxDim {
				maxDim = int(idx[i]) + 1
			}
		}
		records = append(records, rawSparseRecord{class: class, idx: idx, val: val})
	}

	out := make([]sgd.Example, len(records))
	for i, rec := range records {
		out[i] = sgd.Example{X: sgd.NewSparseVector(rec.idx, rec.val, maxDim), Y: classToLabel(rec.class)}
	}
	return out, maxDim, nil
}

func classToLabel(class int8) float64 {
	if class <= 0 {
		return -1
	}
	return 1
}

func labelToClass(y float64) int8 {
	if y > 0 {
		return 1
	}
	return -1
}

// WriteBinarySparse writes examples in the binary sparse format. It is
// the inverse of ReadBinary on a sparse file: write then read round
// trips (xs, ys) exactly (SPEC_FULL.md §8).
func WriteBinarySparse(w io.Writer, examples []sgd.Example) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, binarySparse); err != nil {
		return fmt.Errorf("data: writing sparse header: %w", err)
	}
	for _, ex := range examples {
		if err := binary.Write(bw, binary.LittleEndian, labelToClass(ex.Y)); err != nil {
			return fmt.Errorf("data: writing record class: %w", err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(ex.X.NNZ())); err != nil {
			return fmt.Errorf("data: writing record feature count: %w", err)
		}
		var werr error
		ex.X.Each(func(idx int, val float64) {
			if werr != nil {
				return
			}
			if err := binary.Write(bw, binary.LittleEndian, uint32(idx)); err != nil {
				werr = err
				return
			}
			if err := binary.Write(bw, binary.LittleEndian, val); err != nil {
				werr = err
			}
		})
		if werr != nil {
			return fmt.Errorf("data: writing record features: %w", werr)
		}
	}
	return bw.Flush()
}
