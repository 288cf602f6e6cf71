// cmd_predict.go - Inferenz-Handler fuer predict, test und vectors
// Hauptfunktionen: PredictHandler, TestHandler, VectorsHandler
package cmd

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/wortvek/wortvek/ml"
	"github.com/wortvek/wortvek/model"
)

// PredictHandler - Sagt Labels fuer Zeilen aus Datei oder Stdin vorher.
// Pro Eingabezeile erscheint eine Ausgabezeile, Zeilen ohne bekannte
// Features ergeben "n/a".
func PredictHandler(cmd *cobra.Command, argv []string) error {
	m, err := loadModel(argv[0])
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(argv, 1)
	if err != nil {
		return err
	}
	defer closeIn()

	k, _ := cmd.Flags().GetInt("k")
	prob, _ := cmd.Flags().GetBool("prob")

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	return m.PredictReader(in, k, func(preds []model.Prediction) error {
		if len(preds) == 0 {
			_, err := fmt.Fprintln(out, "n/a")
			return err
		}
		for i, p := range preds {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprint(out, p.Label)
			if prob {
				// Score ist eine Log-Wahrscheinlichkeit
				fmt.Fprintf(out, " %g", math.Exp(float64(p.Score)))
			}
		}
		_, err := fmt.Fprintln(out)
		return err
	})
}

// TestHandler - Misst Precision und Recall auf gelabelten Zeilen
func TestHandler(cmd *cobra.Command, argv []string) error {
	m, err := loadModel(argv[0])
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(argv, 1)
	if err != nil {
		return err
	}
	defer closeIn()

	k, _ := cmd.Flags().GetInt("k")
	res, err := m.Test(in, k)
	if err != nil {
		return err
	}

	fmt.Printf("P@%d: %.3g\n", res.K, res.Precision)
	fmt.Printf("R@%d: %.3g\n", res.K, res.Recall)
	fmt.Printf("Number of examples: %d\n", res.Examples)
	return nil
}

// VectorsHandler - Gibt Wortvektoren aus, mit --text Satzvektoren je Zeile
func VectorsHandler(cmd *cobra.Command, argv []string) error {
	m, err := loadModel(argv[0])
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(argv, 1)
	if err != nil {
		return err
	}
	defer closeIn()

	text, _ := cmd.Flags().GetBool("text")

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !text {
		sc.Split(bufio.ScanWords)
	}

	for sc.Scan() {
		query := sc.Text()
		var vec ml.Vector
		if text {
			vec = m.TextVector(query)
		} else {
			vec = m.WordVector(query)
		}
		if err := writeVector(out, query, vec); err != nil {
			return err
		}
	}
	return sc.Err()
}

// writeVector - Schreibt "query v1 v2 ..." als eine Zeile
func writeVector(w *bufio.Writer, query string, vec ml.Vector) error {
	if _, err := w.WriteString(query); err != nil {
		return err
	}
	w.WriteByte(' ')
	w.WriteString(vec.String())
	return w.WriteByte('\n')
}
