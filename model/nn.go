// nn.go - Naechste Nachbarn, Analogien und Schreibvorschlaege
//
// Dieses Modul enthaelt:
// - NN: Top-k-Nachbarn nach Kosinus-Aehnlichkeit
// - Analogy: a verhaelt sich zu b wie c zu ? (vb - va + vc)
// - Suggest: Editierdistanz-Vorschlaege fuer vertippte Woerter
//
// Unbekannte Woerter bekommen ihren Vektor ueber die Zeichen-N-Grams,
// die Nachbarsuche funktioniert deshalb auch fuer sie.
package model

import (
	"cmp"
	"slices"

	"github.com/agnivade/levenshtein"
	"github.com/emirpasic/gods/v2/trees/binaryheap"

	"github.com/wortvek/wortvek/dict"
	"github.com/wortvek/wortvek/ml"
)

// Neighbor ist ein Treffer der Nachbarsuche
type Neighbor struct {
	Word       string
	Similarity float32
}

// NN liefert die k aehnlichsten Vokabeln zum Wort, das Wort selbst
// ausgenommen. Ein Wort ohne Vektor ergibt ein leeres Ergebnis.
func (m *Model) NN(word string, k int) []Neighbor {
	var banned []int32
	if id := m.dict.ID(word); id >= 0 {
		banned = append(banned, id)
	}
	return m.neighbors(m.WordVector(word), k, banned)
}

// Analogy loest a:b wie c:? ueber den Differenzvektor vb - va + vc.
// Die drei Anfragewoerter sind vom Ergebnis ausgeschlossen.
func (m *Model) Analogy(a, b, c string, k int) []Neighbor {
	va := m.WordVector(a)
	vb := m.WordVector(b)
	vc := m.WordVector(c)
	query := ml.NewVector(m.args.Dim)
	for i := range query.Data {
		query.Data[i] = vb.Data[i] - va.Data[i] + vc.Data[i]
	}

	var banned []int32
	for _, w := range []string{a, b, c} {
		if id := m.dict.ID(w); id >= 0 {
			banned = append(banned, id)
		}
	}
	return m.neighbors(query, k, banned)
}

// neighbors sucht die k Vokabeln mit der hoechsten Kosinus-Aehnlichkeit
func (m *Model) neighbors(query ml.Vector, k int, banned []int32) []Neighbor {
	qnorm := query.Norm()
	if qnorm == 0 || k <= 0 {
		return nil
	}

	heap := binaryheap.NewWith(func(a, b ml.Prediction) int {
		if a.Score != b.Score {
			return cmp.Compare(a.Score, b.Score)
		}
		return cmp.Compare(b.ID, a.ID)
	})
	for i := int32(0); i < m.dict.NWords(); i++ {
		if slices.Contains(banned, i) {
			continue
		}
		vec := m.WordVector(m.dict.Word(i))
		vnorm := vec.Norm()
		if vnorm == 0 {
			continue
		}
		sim := ml.Dot(query, vec) / (qnorm * vnorm)
		if heap.Size() == k {
			if worst, ok := heap.Peek(); ok && sim < worst.Score {
				continue
			}
		}
		heap.Push(ml.Prediction{Score: sim, ID: i})
		if heap.Size() > k {
			heap.Pop()
		}
	}

	out := make([]Neighbor, heap.Size())
	for i := len(out) - 1; i >= 0; i-- {
		p, _ := heap.Pop()
		out[i] = Neighbor{Word: m.dict.Word(p.ID), Similarity: p.Score}
	}
	return out
}

// Suggest liefert die k Vokabeln mit der kleinsten Editierdistanz,
// gedacht als Tippfehler-Hinweis fuer unbekannte Anfragen
func (m *Model) Suggest(word string, k int) []string {
	if k <= 0 {
		return nil
	}

	type cand struct {
		dist int
		id   int32
	}
	// Max-Heap ueber die Distanz: der schlechteste Kandidat liegt oben
	heap := binaryheap.NewWith(func(a, b cand) int {
		if a.dist != b.dist {
			return cmp.Compare(b.dist, a.dist)
		}
		return cmp.Compare(b.id, a.id)
	})
	for i := int32(0); i < m.dict.NWords(); i++ {
		w := m.dict.Word(i)
		if w == word || w == dict.EOS {
			continue
		}
		c := cand{dist: levenshtein.ComputeDistance(word, w), id: i}
		if heap.Size() == k {
			if worst, ok := heap.Peek(); ok && c.dist > worst.dist {
				continue
			}
		}
		heap.Push(c)
		if heap.Size() > k {
			heap.Pop()
		}
	}

	out := make([]string, heap.Size())
	for i := len(out) - 1; i >= 0; i-- {
		c, _ := heap.Pop()
		out[i] = m.dict.Word(c.id)
	}
	return out
}
