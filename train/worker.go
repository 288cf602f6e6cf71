// worker.go - Die Trainingsschleife eines einzelnen Workers
//
// Dieses Modul enthaelt:
// - worker: Korpusabschnitt lesen, Updates fahren, Zaehler flushen
// - learningRate: linear auf null fallende Lernrate
//
// Jeder Worker haelt sein eigenes Dateihandle, seinen eigenen
// Zufallsstrom und seinen eigenen Update-Kern; geteilt sind nur die
// Matrizen und der Tokenzaehler. Gezaehlte Tokens sammeln sich lokal
// und wandern erst nach LRUpdateRate Stueck in den globalen Zaehler.
package train

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wortvek/wortvek/args"
	"github.com/wortvek/wortvek/dict"
	"github.com/wortvek/wortvek/ml"
)

// learningRate skaliert die Basisrate linear mit dem Fortschritt herunter
func learningRate(base, progress float64) float64 {
	return base * (1 - progress)
}

// worker laeuft, bis der globale Tokenzaehler das Epochenbudget
// erreicht oder der Gruppenkontext abgebrochen wird. Er beginnt bei
// seinem eigenen Dateioffset und springt am Dateiende dorthin zurueck.
func (t *Trainer) worker(ctx context.Context, id int, size int64, d *dict.Dictionary, input, output *ml.Matrix, a *args.Args) error {
	f, err := os.Open(a.Input)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	tr, err := dict.NewTokenReaderAt(f, int64(id)*size/int64(a.Thread))
	if err != nil {
		return err
	}

	m := ml.NewModel(input, output, a, uint64(id))
	var counts []int64
	if a.Model == args.ModelSupervised {
		counts = d.Counts(dict.EntryLabel)
	} else {
		counts = d.Counts(dict.EntryWord)
	}
	if err := m.SetTargetCounts(counts); err != nil {
		return err
	}

	total := int64(a.Epoch) * d.NTokens()
	var localCount int64
	var line, labels []int32
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		count := t.tokenCount.Load()
		if count >= total {
			break
		}
		progress := float64(count) / float64(total)
		lr := learningRate(a.LR, progress)

		n, err := d.GetLine(tr, &line, &labels, m.Rng())
		if errors.Is(err, io.EOF) {
			if err := tr.Rewind(); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("read corpus: %w", err)
		}
		localCount += int64(n)

		if t.Deterministic {
			t.mu.Lock()
		}
		switch a.Model {
		case args.ModelSupervised:
			d.AddWordNgrams(&line, a.WordNgrams)
			supervised(m, lr, line, labels)
		case args.ModelCBOW:
			cbow(m, d, a.WS, lr, line)
		default:
			skipgram(m, d, a.WS, lr, line)
		}
		if t.Deterministic {
			t.mu.Unlock()
		}

		if localCount > int64(a.LRUpdateRate) {
			t.tokenCount.Add(localCount)
			localCount = 0
			if id == 0 && a.Verbose > 1 {
				t.report(a, progress, m.Loss(), false)
			}
		}
	}
	if id == 0 && a.Verbose > 0 {
		t.report(a, 1.0, m.Loss(), true)
	}
	return nil
}

// report meldet einen Zwischenstand an den Progress-Callback. Rate und
// Restzeit rechnen mit der Wanduhr seit Trainingsbeginn.
func (t *Trainer) report(a *args.Args, progress, loss float64, final bool) {
	if t.Progress == nil {
		return
	}
	elapsed := time.Since(t.start)
	count := t.tokenCount.Load()
	r := Report{
		Progress: progress,
		Tokens:   count,
		LR:       learningRate(a.LR, progress),
		Loss:     loss,
		Final:    final,
	}
	if sec := elapsed.Seconds(); sec > 0 {
		r.TokensPerSec = float64(count) / sec
	}
	if progress > 0 && progress < 1 {
		r.ETA = time.Duration(elapsed.Seconds() * (1 - progress) / progress * float64(time.Second))
	}
	t.Progress(r)
}
