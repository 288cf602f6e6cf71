// Package model - Trainiertes Modell mit Inferenz-Operationen
//
// Dieses Modul enthaelt:
// - Model: Das Buendel aus Optionen, Woerterbuch und Parametermatrizen
// - WordVector/TextVector: Vektorextraktion durch N-Gram-Mittelung
//
// Nach dem Training (oder Laden) ist das Buendel unveraenderlich. Die
// Inferenz-Operationen teilen sich ein internes Update-Handle; wer sie
// nebenlaeufig aufrufen will, muss von aussen serialisieren.
package model

import (
	"strings"

	"github.com/wortvek/wortvek/args"
	"github.com/wortvek/wortvek/dict"
	"github.com/wortvek/wortvek/ml"
)

// Model buendelt alles, was Inferenz braucht
type Model struct {
	args   *args.Args
	dict   *dict.Dictionary
	input  *ml.Matrix
	output *ml.Matrix
	engine *ml.Model
}

// New bindet ein Buendel an fertige Matrizen und konfiguriert die
// Zielverteilung aus den Woerterbuch-Haeufigkeiten
func New(a *args.Args, d *dict.Dictionary, input, output *ml.Matrix) (*Model, error) {
	m := &Model{
		args:   a,
		dict:   d,
		input:  input,
		output: output,
		engine: ml.NewModel(input, output, a, 0),
	}
	var counts []int64
	if a.Model == args.ModelSupervised {
		counts = d.Counts(dict.EntryLabel)
	} else {
		counts = d.Counts(dict.EntryWord)
	}
	if err := m.engine.SetTargetCounts(counts); err != nil {
		return nil, err
	}
	return m, nil
}

// Args liefert die Trainingsoptionen des Modells
func (m *Model) Args() *args.Args {
	return m.args
}

// Dict liefert das Woerterbuch des Modells
func (m *Model) Dict() *dict.Dictionary {
	return m.dict
}

// WordVector mittelt die Input-Zeilen aller Subwords eines Wortes.
// Ohne Subwords bleibt der Nullvektor stehen.
func (m *Model) WordVector(word string) ml.Vector {
	vec := ml.NewVector(m.args.Dim)
	ngrams := m.dict.SubwordsOf(word)
	for _, id := range ngrams {
		vec.AddRow(m.input, id)
	}
	if len(ngrams) > 0 {
		vec.Mul(1.0 / float32(len(ngrams)))
	}
	return vec
}

// TextVector mittelt die Input-Zeilen aller expandierten Tokens einer
// Zeile, einschliesslich der Wort-N-Gram-Buckets
func (m *Model) TextVector(text string) ml.Vector {
	vec := ml.NewVector(m.args.Dim)
	line, _ := m.tokenize(text)
	for _, id := range line {
		vec.AddRow(m.input, id)
	}
	if len(line) > 0 {
		vec.Mul(1.0 / float32(len(line)))
	}
	return vec
}

// tokenize zerlegt eine Textzeile in expandierte Feature-Ids und Labels
func (m *Model) tokenize(text string) (line, labels []int32) {
	tr := dict.NewTokenReader(strings.NewReader(text + "\n"))
	m.dict.GetLine(tr, &line, &labels, m.engine.Rng())
	m.dict.AddWordNgrams(&line, m.args.WordNgrams)
	return line, labels
}
