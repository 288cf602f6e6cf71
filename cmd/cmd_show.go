// cmd_show.go - Show Command fuer Modell-Informationen
// Hauptfunktionen: ShowHandler, showInfo
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wortvek/wortvek/format"
	"github.com/wortvek/wortvek/model"
)

// ShowHandler - Zeigt Details eines gespeicherten Modells
func ShowHandler(cmd *cobra.Command, argv []string) error {
	m, err := loadModel(argv[0])
	if err != nil {
		return err
	}

	return showInfo(m, os.Stdout)
}

// showInfo - Gibt Modell- und Vokabular-Informationen aus
func showInfo(m *model.Model, w io.Writer) error {
	tableRender := func(header string, rows func() [][]string) {
		fmt.Fprintln(w, " ", header)
		table := tablewriter.NewWriter(w)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")

		table.AppendBulk(rows())
		table.Render()
		fmt.Fprintln(w)
	}

	a := m.Args()
	tableRender("Model", func() (rows [][]string) {
		rows = append(rows, []string{"", "mode", a.Model.String()})
		rows = append(rows, []string{"", "loss", a.Loss.String()})
		rows = append(rows, []string{"", "dimension", strconv.Itoa(a.Dim)})
		rows = append(rows, []string{"", "window", strconv.Itoa(a.WS)})
		if a.Maxn > 0 {
			rows = append(rows, []string{"", "char ngrams", fmt.Sprintf("%d-%d", a.Minn, a.Maxn)})
		}
		if a.WordNgrams > 1 {
			rows = append(rows, []string{"", "word ngrams", strconv.Itoa(a.WordNgrams)})
		}
		rows = append(rows, []string{"", "buckets", format.HumanNumber(uint64(a.Bucket))})
		if m.Dict().NLabels() > 0 {
			rows = append(rows, []string{"", "label prefix", a.Label})
		}
		return
	})

	d := m.Dict()
	tableRender("Vocabulary", func() (rows [][]string) {
		rows = append(rows, []string{"", "words", format.HumanNumber(uint64(d.NWords()))})
		rows = append(rows, []string{"", "labels", format.HumanNumber(uint64(d.NLabels()))})
		rows = append(rows, []string{"", "tokens", format.HumanNumber(uint64(d.NTokens()))})
		return
	})

	return nil
}
