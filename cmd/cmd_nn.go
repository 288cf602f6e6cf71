// cmd_nn.go - Nachbarschafts-Handler fuer nn und analogy
// Hauptfunktionen: NNHandler, AnalogyHandler
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wortvek/wortvek/model"
)

// NNHandler - Zeigt die naechsten Nachbarn. Ohne WORD-Argumente werden
// Abfragen von Stdin gelesen, auf einem Terminal mit Prompt.
func NNHandler(cmd *cobra.Command, argv []string) error {
	m, err := loadModel(argv[0])
	if err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("k")

	query := func(word string) {
		neighbors := m.NN(word, k)
		if len(neighbors) == 0 {
			printUnknown(m, word)
			return
		}
		renderNeighbors(os.Stdout, neighbors)
	}

	if len(argv) > 1 {
		for _, word := range argv[1:] {
			query(word)
		}
		return nil
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	sc := bufio.NewScanner(os.Stdin)
	if interactive {
		fmt.Print("Query word? ")
	}
	for sc.Scan() {
		if word := strings.TrimSpace(sc.Text()); word != "" {
			query(word)
		}
		if interactive {
			fmt.Print("Query word? ")
		}
	}
	if interactive {
		fmt.Println()
	}
	return sc.Err()
}

// AnalogyHandler - Loest A verhaelt sich zu B wie C zu ...
func AnalogyHandler(cmd *cobra.Command, argv []string) error {
	m, err := loadModel(argv[0])
	if err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("k")
	neighbors := m.Analogy(argv[1], argv[2], argv[3], k)
	if len(neighbors) == 0 {
		return fmt.Errorf("no answer for %s : %s :: %s : ?", argv[1], argv[2], argv[3])
	}

	renderNeighbors(os.Stdout, neighbors)
	return nil
}

// printUnknown - Meldet ein unbekanntes Wort mit Schreibvorschlaegen
func printUnknown(m *model.Model, word string) {
	if suggestions := m.Suggest(word, 3); len(suggestions) > 0 {
		fmt.Printf("%s is not in the vocabulary, closest entries: %s\n",
			word, strings.Join(suggestions, ", "))
		return
	}
	fmt.Printf("%s is not in the vocabulary\n", word)
}

// renderNeighbors - Gibt Nachbarn mit Aehnlichkeit als Tabelle aus
func renderNeighbors(w io.Writer, neighbors []model.Neighbor) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")

	for _, n := range neighbors {
		table.Append([]string{n.Word, fmt.Sprintf("%.6f", n.Similarity)})
	}
	table.Render()
}
