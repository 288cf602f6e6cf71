// Package args - Trainingskonfiguration fuer wortvek
//
// Dieses Modul enthaelt:
// - Args: Saemtliche Trainings- und Modelloptionen
// - ModelName/LossName: Enums fuer Trainingsmodus und Loss-Funktion
// - Default/ApplySupervisedDefaults: Standardwerte
// - Validate: Konsistenzpruefung vor dem Training
//
// Die Optionen werden einmal vor Trainingsstart gesetzt und danach
// nur noch lesend von allen Worker-Threads geteilt.
package args

import (
	"errors"
	"fmt"
)

// Fehler-Definitionen
var (
	ErrUnknownModel = errors.New("unknown model name")
	ErrUnknownLoss  = errors.New("unknown loss name")
)

// ModelName bezeichnet den Trainingsmodus
type ModelName int32

const (
	ModelCBOW       ModelName = iota + 1 // Kontext -> Zielwort
	ModelSkipgram                        // Zielwort -> Kontext
	ModelSupervised                      // Text -> Label
)

func (m ModelName) String() string {
	switch m {
	case ModelCBOW:
		return "cbow"
	case ModelSkipgram:
		return "skipgram"
	case ModelSupervised:
		return "supervised"
	default:
		return "unknown"
	}
}

// ParseModelName parst einen Modusnamen
func ParseModelName(s string) (ModelName, error) {
	switch s {
	case "cbow":
		return ModelCBOW, nil
	case "skipgram", "sg":
		return ModelSkipgram, nil
	case "supervised", "sup":
		return ModelSupervised, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownModel, s)
	}
}

// LossName bezeichnet die Loss-Funktion
type LossName int32

const (
	LossHierarchicalSoftmax LossName = iota + 1
	LossNegativeSampling
	LossSoftmax
)

func (l LossName) String() string {
	switch l {
	case LossHierarchicalSoftmax:
		return "hs"
	case LossNegativeSampling:
		return "ns"
	case LossSoftmax:
		return "softmax"
	default:
		return "unknown"
	}
}

// ParseLossName parst einen Loss-Namen
func ParseLossName(s string) (LossName, error) {
	switch s {
	case "hs":
		return LossHierarchicalSoftmax, nil
	case "ns":
		return LossNegativeSampling, nil
	case "softmax":
		return LossSoftmax, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLoss, s)
	}
}

// Args buendelt alle Optionen. Die mit dem Modell persistierten Felder
// sind in args_io.go dokumentiert; Pfade und Laufzeitoptionen werden
// nicht gespeichert.
type Args struct {
	// Pfade (nur Laufzeit)
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	Pretrained string `yaml:"pretrained"`

	// Modell
	Dim    int    `yaml:"dim"`    // Vektordimension
	WS     int    `yaml:"ws"`     // Maximaler Kontextradius
	Minn   int    `yaml:"minn"`   // Kleinste Zeichen-N-Gram-Laenge
	Maxn   int    `yaml:"maxn"`   // Groesste Zeichen-N-Gram-Laenge
	Bucket int    `yaml:"bucket"` // Hash-Buckets fuer N-Gram-Features
	Model  ModelName
	Loss   LossName

	// Training
	Epoch         int     `yaml:"epoch"`
	MinCount      int     `yaml:"min_count"`       // Mindesthaeufigkeit fuer Woerter
	MinCountLabel int     `yaml:"min_count_label"` // Mindesthaeufigkeit fuer Labels
	Neg           int     `yaml:"neg"`             // Negative Samples pro Update
	WordNgrams    int     `yaml:"word_ngrams"`     // Wort-N-Gram-Ordnung
	LR            float64 `yaml:"lr"`
	LRUpdateRate  int     `yaml:"lr_update_rate"` // Tokens zwischen Zaehler-Flushes
	T             float64 `yaml:"t"`              // Subsampling-Schwelle
	Thread        int     `yaml:"thread"`
	Label         string  `yaml:"label"` // Prefix fuer Label-Tokens
	Verbose       int     `yaml:"verbose"`

	// Persistenz
	SaveF16 bool `yaml:"save_f16"` // Matrizen in Halbpraezision speichern
}

// Default liefert die Standardoptionen (Skipgram-Training)
func Default() Args {
	return Args{
		Dim:           100,
		WS:            5,
		Minn:          3,
		Maxn:          6,
		Bucket:        2_000_000,
		Model:         ModelSkipgram,
		Loss:          LossNegativeSampling,
		Epoch:         5,
		MinCount:      5,
		MinCountLabel: 0,
		Neg:           5,
		WordNgrams:    1,
		LR:            0.05,
		LRUpdateRate:  100,
		T:             1e-4,
		Thread:        12,
		Label:         "__label__",
		Verbose:       2,
	}
}

// ApplySupervisedDefaults stellt die Defaults fuer Klassifikation um:
// Softmax-Loss, keine Zeichen-N-Grams, jedes Wort zaehlt, hoehere Lernrate
func (a *Args) ApplySupervisedDefaults() {
	a.Model = ModelSupervised
	a.Loss = LossSoftmax
	a.MinCount = 1
	a.Minn = 0
	a.Maxn = 0
	a.LR = 0.1
}

// Validate prueft die Optionen auf Konsistenz
func (a *Args) Validate() error {
	switch {
	case a.Dim <= 0:
		return fmt.Errorf("dim must be positive, got %d", a.Dim)
	case a.WS <= 0:
		return fmt.Errorf("ws must be positive, got %d", a.WS)
	case a.Epoch <= 0:
		return fmt.Errorf("epoch must be positive, got %d", a.Epoch)
	case a.Thread <= 0:
		return fmt.Errorf("thread must be positive, got %d", a.Thread)
	case a.LR <= 0:
		return fmt.Errorf("lr must be positive, got %g", a.LR)
	case a.LRUpdateRate <= 0:
		return fmt.Errorf("lrUpdateRate must be positive, got %d", a.LRUpdateRate)
	case a.Bucket <= 0:
		return fmt.Errorf("bucket must be positive, got %d", a.Bucket)
	case a.Minn > a.Maxn:
		return fmt.Errorf("minn (%d) must not exceed maxn (%d)", a.Minn, a.Maxn)
	case a.WordNgrams <= 0:
		return fmt.Errorf("wordNgrams must be positive, got %d", a.WordNgrams)
	case a.Neg < 0:
		return fmt.Errorf("neg must not be negative, got %d", a.Neg)
	case a.Label == "":
		return errors.New("label prefix must not be empty")
	}

	if a.Model != ModelCBOW && a.Model != ModelSkipgram && a.Model != ModelSupervised {
		return fmt.Errorf("%w: %d", ErrUnknownModel, a.Model)
	}
	if a.Loss != LossHierarchicalSoftmax && a.Loss != LossNegativeSampling && a.Loss != LossSoftmax {
		return fmt.Errorf("%w: %d", ErrUnknownLoss, a.Loss)
	}

	return nil
}
