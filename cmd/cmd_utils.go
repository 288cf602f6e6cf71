// cmd_utils.go - Gemeinsame Helfer fuer die CLI-Handler
// Hauptfunktionen: loadModel, openInput
package cmd

import (
	"os"

	"golang.org/x/term"

	"github.com/wortvek/wortvek/envconfig"
	"github.com/wortvek/wortvek/model"
	"github.com/wortvek/wortvek/progress"
)

// loadModel - Laedt ein Modell, mit Spinner wenn stderr ein Terminal ist
func loadModel(path string) (*model.Model, error) {
	if envconfig.NoProgress() || !term.IsTerminal(int(os.Stderr.Fd())) {
		return model.Load(path)
	}

	p := progress.NewProgress(os.Stderr)
	spinner := progress.NewSpinner("loading model")
	p.Add("load", spinner)

	m, err := model.Load(path)
	p.StopAndClear()
	return m, err
}

// openInput - Oeffnet das Eingabeargument an Position i.
// Fehlendes Argument oder "-" heisst Stdin.
func openInput(argv []string, i int) (*os.File, func(), error) {
	if len(argv) <= i || argv[i] == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(argv[i])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
