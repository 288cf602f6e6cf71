// predict.go - Labelvorhersage und Evaluation
//
// Dieses Modul enthaelt:
// - Predict: Top-k-Labels fuer eine Textzeile
// - PredictReader: Zeilenweise Batch-Vorhersage ueber einen Strom
// - Test: Streaming-Evaluation mit Precision@k und Recall@k
//
// Leere Zeilen sind keine Fehler: Predict liefert dann ein leeres
// Ergebnis, Test ueberspringt die Zeile.
package model

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/wortvek/wortvek/dict"
)

// Prediction ist ein vorhergesagtes Label mit Log-Wahrscheinlichkeit
type Prediction struct {
	Label string
	Score float32
}

// Predict liefert die Top-k-Labels fuer eine Textzeile, absteigend
// nach Score. Eine Zeile ohne bekannte Features ergibt ein leeres
// Ergebnis.
func (m *Model) Predict(text string, k int) []Prediction {
	line, _ := m.tokenize(text)
	if !m.hasFeatures(line) {
		return nil
	}
	return m.predictLine(line, k)
}

// hasFeatures meldet, ob die Zeile mehr enthaelt als das Zeilenende.
// Leere und rein unbekannte Zeilen fallen durch.
func (m *Model) hasFeatures(line []int32) bool {
	eos := m.dict.ID(dict.EOS)
	for _, id := range line {
		if id != eos {
			return true
		}
	}
	return false
}

func (m *Model) predictLine(line []int32, k int) []Prediction {
	raw := m.engine.Predict(line, k)
	if len(raw) == 0 {
		return nil
	}
	preds := make([]Prediction, 0, len(raw))
	for _, p := range raw {
		preds = append(preds, Prediction{Label: m.dict.Label(p.ID), Score: p.Score})
	}
	return preds
}

// PredictReader sagt fuer jede Zeile des Stroms die Top-k-Labels
// vorher und reicht sie an fn weiter; leere Zeilen kommen als nil an
func (m *Model) PredictReader(r io.Reader, k int, fn func(preds []Prediction) error) error {
	tr := dict.NewTokenReader(r)
	var line, labels []int32
	for {
		_, err := m.dict.GetLine(tr, &line, &labels, m.engine.Rng())
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		m.dict.AddWordNgrams(&line, m.args.WordNgrams)

		var preds []Prediction
		if m.hasFeatures(line) {
			preds = m.predictLine(line, k)
		}
		if err := fn(preds); err != nil {
			return err
		}
	}
}

// TestResult fasst eine Evaluation zusammen
type TestResult struct {
	Precision float64
	Recall    float64
	Examples  int64
	K         int
}

// Test wertet gelabelte Zeilen aus: ein Treffer ist jedes der Top-k,
// das in der wahren Labelmenge liegt. Zeilen ohne Labels oder ohne
// Features zaehlen nicht.
func (m *Model) Test(r io.Reader, k int) (TestResult, error) {
	tr := dict.NewTokenReader(r)
	var line, labels []int32
	var hits, nlabels, nexamples int64
	for {
		_, err := m.dict.GetLine(tr, &line, &labels, m.engine.Rng())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TestResult{}, fmt.Errorf("read test input: %w", err)
		}
		m.dict.AddWordNgrams(&line, m.args.WordNgrams)
		if len(labels) == 0 || !m.hasFeatures(line) {
			continue
		}
		for _, p := range m.engine.Predict(line, k) {
			if slices.Contains(labels, p.ID) {
				hits++
			}
		}
		nexamples++
		nlabels += int64(len(labels))
	}

	res := TestResult{Examples: nexamples, K: k}
	if nexamples > 0 {
		res.Precision = float64(hits) / (float64(k) * float64(nexamples))
	}
	if nlabels > 0 {
		res.Recall = float64(hits) / float64(nlabels)
	}
	return res, nil
}
