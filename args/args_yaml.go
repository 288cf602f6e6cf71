// args_yaml.go - YAML-Overlay fuer Trainingsoptionen
//
// Dieses Modul enthaelt:
// - ApplyFile: Laedt eine YAML-Datei und ueberschreibt nur gesetzte Keys
//
// Pointer-Felder unterscheiden "nicht angegeben" von Nullwerten, damit
// ein Overlay mit zwei Keys nicht die restlichen Defaults plattmacht.
package args

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type overlay struct {
	Input      *string `yaml:"input"`
	Output     *string `yaml:"output"`
	Pretrained *string `yaml:"pretrained"`

	Dim    *int    `yaml:"dim"`
	WS     *int    `yaml:"ws"`
	Minn   *int    `yaml:"minn"`
	Maxn   *int    `yaml:"maxn"`
	Bucket *int    `yaml:"bucket"`
	Model  *string `yaml:"model"`
	Loss   *string `yaml:"loss"`

	Epoch         *int     `yaml:"epoch"`
	MinCount      *int     `yaml:"min_count"`
	MinCountLabel *int     `yaml:"min_count_label"`
	Neg           *int     `yaml:"neg"`
	WordNgrams    *int     `yaml:"word_ngrams"`
	LR            *float64 `yaml:"lr"`
	LRUpdateRate  *int     `yaml:"lr_update_rate"`
	T             *float64 `yaml:"t"`
	Thread        *int     `yaml:"thread"`
	Label         *string  `yaml:"label"`
	Verbose       *int     `yaml:"verbose"`

	SaveF16 *bool `yaml:"save_f16"`
}

// ApplyFile liest eine YAML-Konfiguration und uebernimmt gesetzte Keys
func (a *Args) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&a.Input, o.Input)
	setString(&a.Output, o.Output)
	setString(&a.Pretrained, o.Pretrained)
	setInt(&a.Dim, o.Dim)
	setInt(&a.WS, o.WS)
	setInt(&a.Minn, o.Minn)
	setInt(&a.Maxn, o.Maxn)
	setInt(&a.Bucket, o.Bucket)
	setInt(&a.Epoch, o.Epoch)
	setInt(&a.MinCount, o.MinCount)
	setInt(&a.MinCountLabel, o.MinCountLabel)
	setInt(&a.Neg, o.Neg)
	setInt(&a.WordNgrams, o.WordNgrams)
	setFloat(&a.LR, o.LR)
	setInt(&a.LRUpdateRate, o.LRUpdateRate)
	setFloat(&a.T, o.T)
	setInt(&a.Thread, o.Thread)
	setString(&a.Label, o.Label)
	setInt(&a.Verbose, o.Verbose)

	if o.Model != nil {
		m, err := ParseModelName(*o.Model)
		if err != nil {
			return err
		}
		a.Model = m
	}
	if o.Loss != nil {
		l, err := ParseLossName(*o.Loss)
		if err != nil {
			return err
		}
		a.Loss = l
	}
	if o.SaveF16 != nil {
		a.SaveF16 = *o.SaveF16
	}

	return nil
}
