// model_io.go - Persistenz des Modellbuendels
//
// Dieses Modul enthaelt:
// - Save/Load: Magic, Formatversion, danach Optionen, Woerterbuch und
//   beide Matrizen in fester Reihenfolge
// - SaveVectors: Menschenlesbare .vec-Datei mit einem Wort pro Zeile
//
// Jeder Bestandteil serialisiert sich selbst, das Buendel sequenziert
// nur die Aufrufe.
package model

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wortvek/wortvek/args"
	"github.com/wortvek/wortvek/dict"
	"github.com/wortvek/wortvek/ml"
)

var magic = [4]byte{'W', 'V', 'E', 'K'}

const formatVersion uint32 = 1

// Fehler-Definitionen
var (
	ErrBadMagic   = errors.New("not a wortvek model file")
	ErrBadVersion = errors.New("unsupported model format version")
)

// SaveTo schreibt das Buendel in einen Writer
func (m *Model) SaveTo(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := m.args.Save(w); err != nil {
		return err
	}
	if err := m.dict.Save(w); err != nil {
		return err
	}
	if err := m.input.Save(w, m.args.SaveF16); err != nil {
		return err
	}
	if err := m.output.Save(w, m.args.SaveF16); err != nil {
		return err
	}
	return nil
}

// Save schreibt das Buendel in eine Datei
func (m *Model) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	w := bufio.NewWriterSize(f, 1<<20)
	if err := m.SaveTo(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write model file: %w", err)
	}
	return f.Close()
}

// LoadFrom liest ein Buendel aus einem Reader und baut das
// Inferenz-Handle samt Zielverteilung wieder auf
func LoadFrom(r io.Reader) (*Model, error) {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	if got != magic {
		return nil, ErrBadMagic
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}

	a := args.Default()
	if err := a.Load(r); err != nil {
		return nil, err
	}
	d, err := dict.Load(r, &a)
	if err != nil {
		return nil, err
	}
	input, err := ml.LoadMatrix(r)
	if err != nil {
		return nil, err
	}
	output, err := ml.LoadMatrix(r)
	if err != nil {
		return nil, err
	}
	return New(&a, d, input, output)
}

// Load liest ein Buendel aus einer Datei
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()
	return LoadFrom(bufio.NewReaderSize(f, 1<<20))
}

// SaveVectors schreibt alle Wortvektoren als Text: eine Kopfzeile
// "<nwords> <dim>", danach pro Wort das Token mit seinen Komponenten
func (m *Model) SaveVectors(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := fmt.Fprintf(bw, "%d %d\n", m.dict.NWords(), m.args.Dim); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}
	for i := int32(0); i < m.dict.NWords(); i++ {
		word := m.dict.Word(i)
		vec := m.WordVector(word)
		if _, err := bw.WriteString(word); err != nil {
			return fmt.Errorf("write vectors: %w", err)
		}
		for _, v := range vec.Data {
			if err := bw.WriteByte(' '); err != nil {
				return fmt.Errorf("write vectors: %w", err)
			}
			if _, err := bw.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32)); err != nil {
				return fmt.Errorf("write vectors: %w", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write vectors: %w", err)
		}
	}
	return bw.Flush()
}

// SaveVectorsFile schreibt die .vec-Datei neben das Modell
func (m *Model) SaveVectorsFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vectors file: %w", err)
	}
	if err := m.SaveVectors(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
