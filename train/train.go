// Package train - Paralleles Training von Wortvektoren und Klassifikatoren
//
// Dieses Modul enthaelt:
// - Trainer: Konfiguration und Zustand eines Trainingslaufs
// - Train: Woerterbuch aufbauen, Matrizen anlegen, Worker starten
// - Report: Fortschrittsmeldungen fuer den Aufrufer
//
// Die Worker teilen sich die Parametermatrizen ohne Sperren (Hogwild):
// jeder liest seinen eigenen Korpusabschnitt und schreibt Updates
// direkt in die gemeinsamen Zeilen. Der globale Tokenzaehler ist die
// einzige geteilte Koordinate; er steuert Lernrate und Abbruch.
package train

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/wortvek/wortvek/args"
	"github.com/wortvek/wortvek/dict"
	"github.com/wortvek/wortvek/ml"
	"github.com/wortvek/wortvek/model"
)

// Fehler-Definitionen
var (
	ErrStdinTraining = errors.New("cannot train on stdin: training needs a seekable corpus file")
	ErrNotRegular    = errors.New("training corpus must be a regular file")
)

// Report beschreibt den Stand eines Trainingslaufs
type Report struct {
	Progress     float64 // Anteil der verarbeiteten Tokens (0..1)
	Tokens       int64
	TokensPerSec float64
	LR           float64
	Loss         float64
	ETA          time.Duration
	Final        bool
}

// Trainer fuehrt einen Trainingslauf aus. Progress wird, falls gesetzt,
// von Worker 0 mit Zwischenstaenden aufgerufen, der Verbose-Level
// steuert wie beim Training selbst die Haeufigkeit. Deterministic
// serialisiert die Matrix-Updates ueber eine Sperre; das macht Laeufe
// unter dem Race-Detector sauber, kostet aber die Parallelitaet.
type Trainer struct {
	Args          args.Args
	Progress      func(Report)
	Deterministic bool

	tokenCount atomic.Int64
	start      time.Time
	mu         sync.Mutex
}

// Train baut das Woerterbuch aus dem Korpus auf, legt die Matrizen an
// und laesst Thread Worker parallel ueber die Datei laufen. Das
// Ergebnis ist ein fertiges Modellbuendel.
func (t *Trainer) Train() (*model.Model, error) {
	a := t.Args
	if err := a.Validate(); err != nil {
		return nil, err
	}

	f, size, err := openCorpus(a.Input)
	if err != nil {
		return nil, err
	}
	d := dict.New(&a)
	err = d.ReadFromFile(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	var input *ml.Matrix
	if a.Pretrained != "" {
		input, err = loadPretrained(a.Pretrained, d, &a)
		if err != nil {
			return nil, err
		}
	} else {
		input = ml.NewMatrix(int(d.NWords())+a.Bucket, a.Dim)
		input.Uniform(1.0/float64(a.Dim), rand.NewSource(1))
	}
	rows := int(d.NWords())
	if a.Model == args.ModelSupervised {
		rows = int(d.NLabels())
	}
	output := ml.NewMatrix(rows, a.Dim)

	t.tokenCount.Store(0)
	t.start = time.Now()

	// Ein fehlgeschlagener Worker bricht ueber den Gruppenkontext auch
	// die uebrigen ab, statt sie gegen halb geschriebene Matrizen
	// weiterlaufen zu lassen
	g, ctx := errgroup.WithContext(context.Background())
	for id := 0; id < a.Thread; id++ {
		id := id
		g.Go(func() error {
			return t.worker(ctx, id, size, d, input, output, &a)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return model.New(&a, d, input, output)
}

// openCorpus oeffnet die Korpusdatei. Das Training braucht wahlfreien
// Zugriff fuer die Worker-Offsets, Stdin und Pipes scheiden aus.
func openCorpus(path string) (*os.File, int64, error) {
	if path == "-" {
		return nil, 0, ErrStdinTraining
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("stat corpus: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open corpus: %w", err)
	}
	return f, fi.Size(), nil
}
