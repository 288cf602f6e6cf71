// matrix_io.go - Binaere Persistenz der Parametermatrizen
//
// Dieses Modul enthaelt:
// - Save: rows, cols, dtype-Byte, danach die Zeilen in Little-Endian
// - LoadMatrix: Rekonstruktion, Halbpraezision wird beim Laden expandiert
//
// Halbpraezision halbiert die Modellgroesse auf der Platte, im Speicher
// wird immer mit float32 gerechnet.
package ml

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/x448/float16"
)

const (
	dtypeF32 uint8 = iota
	dtypeF16
)

// Save schreibt die Matrix zeilenweise, wahlweise in Halbpraezision
func (m *Matrix) Save(w io.Writer, half bool) error {
	head := []any{int64(m.Rows), int64(m.Cols)}
	for _, v := range head {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write matrix: %w", err)
		}
	}
	dtype := dtypeF32
	if half {
		dtype = dtypeF16
	}
	if err := binary.Write(w, binary.LittleEndian, dtype); err != nil {
		return fmt.Errorf("write matrix: %w", err)
	}

	if !half {
		for i := 0; i < m.Rows; i++ {
			if err := binary.Write(w, binary.LittleEndian, m.Row(int32(i))); err != nil {
				return fmt.Errorf("write matrix row %d: %w", i, err)
			}
		}
		return nil
	}

	buf := make([]uint16, m.Cols)
	for i := 0; i < m.Rows; i++ {
		for j, f := range m.Row(int32(i)) {
			buf[j] = float16.Fromfloat32(f).Bits()
		}
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return fmt.Errorf("write matrix row %d: %w", i, err)
		}
	}
	return nil
}

// LoadMatrix liest eine gespeicherte Matrix
func LoadMatrix(r io.Reader) (*Matrix, error) {
	var rows, cols int64
	for _, v := range []any{&rows, &cols} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("read matrix: %w", err)
		}
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("read matrix: invalid shape %dx%d", rows, cols)
	}
	var dtype uint8
	if err := binary.Read(r, binary.LittleEndian, &dtype); err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}

	m := NewMatrix(int(rows), int(cols))
	switch dtype {
	case dtypeF32:
		for i := 0; i < m.Rows; i++ {
			if err := binary.Read(r, binary.LittleEndian, m.Row(int32(i))); err != nil {
				return nil, fmt.Errorf("read matrix row %d: %w", i, err)
			}
		}
	case dtypeF16:
		buf := make([]uint16, m.Cols)
		for i := 0; i < m.Rows; i++ {
			if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
				return nil, fmt.Errorf("read matrix row %d: %w", i, err)
			}
			row := m.Row(int32(i))
			for j, u := range buf {
				row[j] = float16.Frombits(u).Float32()
			}
		}
	default:
		return nil, fmt.Errorf("read matrix: unknown dtype %d", dtype)
	}
	return m, nil
}
