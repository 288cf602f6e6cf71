// pretrained.go - Import vortrainierter Vektoren im .vec-Textformat
//
// Dieses Modul enthaelt:
// - loadPretrained: .vec-Datei lesen, Vokabular mergen, Matrix fuellen
//
// Die Woerter der Datei kommen zusaetzlich ins Woerterbuch. Zeilen fuer
// Woerter, die es danach nicht ins Vokabular schaffen, werden still
// verworfen; alle uebrigen Zeilen starten wie gewohnt zufaellig.
package train

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/exp/rand"

	"github.com/wortvek/wortvek/args"
	"github.com/wortvek/wortvek/dict"
	"github.com/wortvek/wortvek/ml"
)

var ErrPretrainedDim = errors.New("pretrained vector dimension does not match dim")

// loadPretrained liest eine .vec-Datei und baut daraus die Input-Matrix.
// Die Dimension wird gegen die Optionen geprueft, bevor irgendetwas
// allokiert wird.
func loadPretrained(path string, d *dict.Dictionary, a *args.Args) (*ml.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pretrained vectors: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)
	next := func() (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read pretrained vectors: %w", err)
		}
		return "", fmt.Errorf("read pretrained vectors: %w", io.ErrUnexpectedEOF)
	}

	n, err := readHeaderInt(next)
	if err != nil {
		return nil, err
	}
	dim, err := readHeaderInt(next)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("pretrained vectors: bad word count %d", n)
	}
	if dim != a.Dim {
		return nil, fmt.Errorf("%w: file has %d, want %d", ErrPretrainedDim, dim, a.Dim)
	}

	words := make([]string, 0, n)
	vecs := ml.NewMatrix(n, dim)
	for i := 0; i < n; i++ {
		w, err := next()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
		d.Add(w)
		row := vecs.Row(int32(i))
		for j := 0; j < dim; j++ {
			s, err := next()
			if err != nil {
				return nil, err
			}
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, fmt.Errorf("parse pretrained vector for %q: %w", w, err)
			}
			row[j] = float32(v)
		}
	}

	d.Threshold(1, 0)
	d.Rebuild()

	input := ml.NewMatrix(int(d.NWords())+a.Bucket, a.Dim)
	input.Uniform(1.0/float64(a.Dim), rand.NewSource(1))
	for i, w := range words {
		id := d.ID(w)
		if id < 0 || id >= d.NWords() {
			continue
		}
		copy(input.Row(id), vecs.Row(int32(i)))
	}
	return input, nil
}

func readHeaderInt(next func() (string, error)) (int, error) {
	s, err := next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse pretrained header: %w", err)
	}
	return v, nil
}
