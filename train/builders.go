// builders.go - Kontextbauer fuer die drei Trainingsarten
//
// Dieses Modul enthaelt:
// - supervised: Zufallslabel gegen die volle Featurezeile
// - cbow: Wortsack der Nachbarn sagt das Zentralwort vorher
// - skipgram: Subwords des Zentralworts sagen jeden Nachbarn vorher
//
// Der Kontextradius wird pro Position neu gleichverteilt aus [1, ws]
// gezogen, nicht fest auf ws gesetzt.
package train

import (
	"golang.org/x/exp/rand"

	"github.com/wortvek/wortvek/dict"
)

// updater ist die schmale Sicht der Kontextbauer auf den Update-Kern.
// Tests haengen hier einen Mitschreiber ein.
type updater interface {
	Update(input []int32, target int32, lr float64)
	Rng() *rand.Rand
}

// supervised zieht ein zufaelliges Label der Zeile und trainiert die
// volle Featuremenge darauf. Zeilen ohne Label oder ohne Features
// werden uebersprungen.
func supervised(m updater, lr float64, line, labels []int32) {
	if len(labels) == 0 || len(line) == 0 {
		return
	}
	target := labels[m.Rng().Intn(len(labels))]
	m.Update(line, target, lr)
}

// cbow sammelt pro Position die Subwords aller Nachbarn im Fenster und
// macht daraus ein Update auf das Zentralwort
func cbow(m updater, d *dict.Dictionary, ws int, lr float64, line []int32) {
	var bow []int32
	for w := range line {
		boundary := 1 + m.Rng().Intn(ws)
		bow = bow[:0]
		for c := -boundary; c <= boundary; c++ {
			if c == 0 || w+c < 0 || w+c >= len(line) {
				continue
			}
			bow = append(bow, d.Subwords(line[w+c])...)
		}
		m.Update(bow, line[w], lr)
	}
}

// skipgram macht pro Position ein eigenes Update fuer jeden Nachbarn
// im Fenster, jeweils aus den Subwords des Zentralworts
func skipgram(m updater, d *dict.Dictionary, ws int, lr float64, line []int32) {
	for w := range line {
		boundary := 1 + m.Rng().Intn(ws)
		ngrams := d.Subwords(line[w])
		for c := -boundary; c <= boundary; c++ {
			if c == 0 || w+c < 0 || w+c >= len(line) {
				continue
			}
			m.Update(ngrams, line[w+c], lr)
		}
	}
}
