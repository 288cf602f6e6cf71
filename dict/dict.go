// Package dict - Woerterbuch mit Subword-Hashing
//
// Dieses Modul enthaelt:
// - Dictionary: Vokabular aus Woertern und Labels mit dichten Ids
// - ReadFromFile: Korpus-Scan mit Haeufigkeitszaehlung und Pruning
// - Zeichen-N-Gram-Expansion in einen Hash-Bucket-Raum (FNV-1a)
// - GetLine: Zeilen-Tokenisierung mit Subsampling fuer das Training
//
// Ids sind dicht vergeben: Woerter vor Labels, innerhalb eines Typs
// absteigend nach Haeufigkeit. Label-Ids werden relativ zu nwords
// gezaehlt, so wie es die Output-Matrix erwartet. Nach dem Aufbau ist
// das Woerterbuch unveraenderlich und wird von allen Workern nur noch
// gelesen.
package dict

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/wortvek/wortvek/args"
	"github.com/wortvek/wortvek/format"
)

const (
	maxVocabSize = 30_000_000
	maxLineSize  = 1024
)

// ErrEmptyVocab meldet ein leeres Vokabular nach dem Pruning
var ErrEmptyVocab = errors.New("empty vocabulary, try a smaller min count")

// EntryType unterscheidet Woerter von Labels
type EntryType uint8

const (
	EntryWord EntryType = iota
	EntryLabel
)

// Entry ist ein Vokabular-Eintrag
type Entry struct {
	Word     string
	Count    int64
	Type     EntryType
	Subwords []int32 // Wort-Id plus gehashte Zeichen-N-Grams
}

// Dictionary bildet Tokens auf dichte Ids ab
type Dictionary struct {
	args     *args.Args
	words    []Entry
	word2int map[string]int32
	pdiscard []float64
	nwords   int32
	nlabels  int32
	ntokens  int64
}

// New erzeugt ein leeres Woerterbuch
func New(a *args.Args) *Dictionary {
	return &Dictionary{
		args:     a,
		word2int: make(map[string]int32),
	}
}

// ReadFromFile baut das Vokabular durch einen vollen Korpus-Scan auf
func (d *Dictionary) ReadFromFile(r io.Reader) error {
	tr := NewTokenReader(r)
	minThreshold := int64(1)
	for {
		tok, err := tr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		d.add(tok)
		if d.ntokens%1_000_000 == 0 && d.args.Verbose > 1 {
			slog.Info("reading corpus", "tokens", format.HumanNumber(uint64(d.ntokens)))
		}
		// Zwischenpruning haelt die Tabelle unter der Kapazitaetsgrenze
		if len(d.words) > maxVocabSize*3/4 {
			minThreshold++
			d.Threshold(minThreshold, minThreshold)
		}
	}
	d.Threshold(int64(d.args.MinCount), int64(d.args.MinCountLabel))
	d.initTableDiscard()
	d.initNgrams()
	if len(d.words) == 0 {
		return ErrEmptyVocab
	}
	if d.args.Verbose > 0 {
		slog.Info("vocabulary ready",
			"tokens", format.HumanNumber(uint64(d.ntokens)),
			"words", d.nwords,
			"labels", d.nlabels)
	}
	return nil
}

func (d *Dictionary) add(w string) {
	d.ntokens++
	if id, ok := d.word2int[w]; ok {
		d.words[id].Count++
		return
	}
	d.words = append(d.words, Entry{Word: w, Count: 1, Type: d.entryType(w)})
	d.word2int[w] = int32(len(d.words) - 1)
}

// Add zaehlt ein einzelnes Token, als waere es aus dem Korpus gelesen.
// Wird beim Import vortrainierter Vektoren benutzt, um deren Vokabular
// aufzunehmen; danach muss Threshold und Rebuild laufen.
func (d *Dictionary) Add(w string) {
	d.add(w)
}

// Rebuild berechnet die abgeleiteten Tabellen (Subwords, Subsampling)
// neu, nachdem das Vokabular von aussen veraendert wurde
func (d *Dictionary) Rebuild() {
	d.initTableDiscard()
	d.initNgrams()
}

func (d *Dictionary) entryType(w string) EntryType {
	if strings.HasPrefix(w, d.args.Label) {
		return EntryLabel
	}
	return EntryWord
}

// Threshold entfernt seltene Eintraege und vergibt die Ids neu:
// Woerter vor Labels, absteigend nach Haeufigkeit
func (d *Dictionary) Threshold(t, tl int64) {
	sort.SliceStable(d.words, func(i, j int) bool {
		if d.words[i].Type != d.words[j].Type {
			return d.words[i].Type < d.words[j].Type
		}
		return d.words[i].Count > d.words[j].Count
	})
	kept := d.words[:0]
	for _, e := range d.words {
		if (e.Type == EntryWord && e.Count < t) ||
			(e.Type == EntryLabel && e.Count < tl) {
			continue
		}
		kept = append(kept, e)
	}
	d.words = kept

	d.nwords, d.nlabels = 0, 0
	clear(d.word2int)
	for i := range d.words {
		d.word2int[d.words[i].Word] = int32(i)
		switch d.words[i].Type {
		case EntryWord:
			d.nwords++
		case EntryLabel:
			d.nlabels++
		}
	}
}

// initTableDiscard berechnet die Behalte-Wahrscheinlichkeit pro Eintrag
// aus der relativen Haeufigkeit: sqrt(t/f) + t/f
func (d *Dictionary) initTableDiscard() {
	d.pdiscard = make([]float64, len(d.words))
	for i := range d.words {
		f := float64(d.words[i].Count) / float64(d.ntokens)
		d.pdiscard[i] = math.Sqrt(d.args.T/f) + d.args.T/f
	}
}

// initNgrams expandiert jeden Eintrag in seine Subword-Ids. Der erste
// Eintrag ist immer die Wort-Id selbst, EOS bekommt keine N-Grams.
func (d *Dictionary) initNgrams() {
	for i := range d.words {
		d.words[i].Subwords = append(d.words[i].Subwords[:0], int32(i))
		if d.words[i].Word != EOS {
			d.computeSubwords(BOW+d.words[i].Word+EOW, &d.words[i].Subwords)
		}
	}
}

// computeSubwords sammelt alle Zeichen-N-Grams zwischen Minn und Maxn.
// N-Grams zaehlen in Unicode-Zeichen, gearbeitet wird auf UTF-8-Bytes:
// Fortsetzungsbytes verlaengern das laufende Zeichen.
func (d *Dictionary) computeSubwords(word string, ngrams *[]int32) {
	for i := 0; i < len(word); i++ {
		if isCont(word[i]) {
			continue
		}
		j := i
		for n := 1; j < len(word) && n <= d.args.Maxn; n++ {
			j++
			for j < len(word) && isCont(word[j]) {
				j++
			}
			if n >= d.args.Minn && !(n == 1 && (i == 0 || j == len(word))) {
				h := fnv1a(word[i:j]) % uint32(d.args.Bucket)
				*ngrams = append(*ngrams, d.nwords+int32(h))
			}
		}
	}
}

func isCont(b byte) bool {
	return b&0xC0 == 0x80
}

// fnv1a ist der 32-Bit-FNV-1a-Hash fuer N-Gram-Buckets
func fnv1a(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// ID liefert die Id eines Tokens oder -1
func (d *Dictionary) ID(w string) int32 {
	if id, ok := d.word2int[w]; ok {
		return id
	}
	return -1
}

// Word liefert das Token zu einer Id
func (d *Dictionary) Word(id int32) string {
	return d.words[id].Word
}

// Label liefert das Label-Token zu einer Label-Id (relativ zu nwords)
func (d *Dictionary) Label(lid int32) string {
	return d.words[d.nwords+lid].Word
}

// Subwords liefert die Subword-Ids eines Vokabular-Eintrags
func (d *Dictionary) Subwords(id int32) []int32 {
	return d.words[id].Subwords
}

// SubwordsOf expandiert auch unbekannte Tokens in ihre N-Gram-Buckets
func (d *Dictionary) SubwordsOf(w string) []int32 {
	if id := d.ID(w); id >= 0 {
		return d.words[id].Subwords
	}
	var ngrams []int32
	if w != EOS {
		d.computeSubwords(BOW+w+EOW, &ngrams)
	}
	return ngrams
}

// Counts liefert die Haeufigkeiten aller Eintraege eines Typs in Id-Reihenfolge
func (d *Dictionary) Counts(t EntryType) []int64 {
	var counts []int64
	for i := range d.words {
		if d.words[i].Type == t {
			counts = append(counts, d.words[i].Count)
		}
	}
	return counts
}

// Discard entscheidet per Subsampling, ob ein Wort uebersprungen wird.
// Im ueberwachten Training bleibt jedes Wort erhalten.
func (d *Dictionary) Discard(id int32, rnd float64) bool {
	if d.args.Model == args.ModelSupervised {
		return false
	}
	return rnd > d.pdiscard[id]
}

// GetLine tokenisiert die naechste Zeile in Wort- und Label-Ids und
// liefert die Zahl der gelesenen Tokens. io.EOF kommt erst, wenn der
// Strom zu Beginn des Aufrufs bereits erschoepft ist.
func (d *Dictionary) GetLine(tr *TokenReader, words, labels *[]int32, rng *rand.Rand) (int, error) {
	*words = (*words)[:0]
	*labels = (*labels)[:0]
	ntokens := 0
	for {
		tok, err := tr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if ntokens == 0 {
					return 0, io.EOF
				}
				break
			}
			return ntokens, err
		}
		ntokens++
		id := d.ID(tok)
		if id < 0 {
			continue
		}
		switch d.words[id].Type {
		case EntryWord:
			if !d.Discard(id, rng.Float64()) {
				*words = append(*words, id)
			}
		case EntryLabel:
			*labels = append(*labels, id-d.nwords)
		}
		if tok == EOS {
			break
		}
		if ntokens > maxLineSize && d.args.Model != args.ModelSupervised {
			break
		}
	}
	return ntokens, nil
}

// AddWordNgrams haengt die gehashten Wort-N-Grams der Zeile an. Der
// rollende Hash entspricht h*116049371 + id pro Erweiterung.
func (d *Dictionary) AddWordNgrams(line *[]int32, n int) {
	size := len(*line)
	for i := 0; i < size; i++ {
		h := uint64((*line)[i])
		for j := i + 1; j < size && j < i+n; j++ {
			h = h*116049371 + uint64((*line)[j])
			*line = append(*line, d.nwords+int32(h%uint64(d.args.Bucket)))
		}
	}
}

// NWords liefert die Zahl der Woerter
func (d *Dictionary) NWords() int32 { return d.nwords }

// NLabels liefert die Zahl der Labels
func (d *Dictionary) NLabels() int32 { return d.nlabels }

// NTokens liefert die Zahl der beim Scan gelesenen Tokens
func (d *Dictionary) NTokens() int64 { return d.ntokens }

// Size liefert die Gesamtzahl der Eintraege
func (d *Dictionary) Size() int32 { return int32(len(d.words)) }
