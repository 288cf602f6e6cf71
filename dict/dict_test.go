// dict_test.go - Tests fuer Woerterbuch, Tokenizer und Subwords
package dict

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"

	"github.com/wortvek/wortvek/args"
)

// buildDict baut ein Woerterbuch aus einem Korpus-String
func buildDict(t *testing.T, corpus string, a *args.Args) *Dictionary {
	t.Helper()
	d := New(a)
	if err := d.ReadFromFile(strings.NewReader(corpus)); err != nil {
		t.Fatalf("ReadFromFile: %v", err)
	}
	return d
}

func testArgs() *args.Args {
	a := args.Default()
	a.MinCount = 1
	a.Verbose = 0
	return &a
}

// TestReadFromFile prueft Zaehlung und Id-Vergabe nach Haeufigkeit
func TestReadFromFile(t *testing.T) {
	corpus := "der hund beisst den mann\nder mann beisst den hund\nder hund schlaeft\n"
	d := buildDict(t, corpus, testArgs())

	if d.NTokens() != 16 {
		t.Errorf("NTokens = %d, erwartet 16", d.NTokens())
	}
	if d.NWords() != 7 || d.NLabels() != 0 {
		t.Errorf("NWords = %d, NLabels = %d", d.NWords(), d.NLabels())
	}

	// Absteigend nach Haeufigkeit, bei Gleichstand in Lesereihenfolge
	wantIDs := map[string]int32{
		"der": 0, "hund": 1, EOS: 2,
		"beisst": 3, "den": 4, "mann": 5,
		"schlaeft": 6,
	}
	for w, want := range wantIDs {
		if got := d.ID(w); got != want {
			t.Errorf("ID(%q) = %d, erwartet %d", w, got, want)
		}
	}
	if d.ID("katze") != -1 {
		t.Errorf("ID(katze) = %d, erwartet -1", d.ID("katze"))
	}
	if d.Word(0) != "der" {
		t.Errorf("Word(0) = %q", d.Word(0))
	}
}

// TestReadFromFileLabels prueft die Trennung von Woertern und Labels
func TestReadFromFileLabels(t *testing.T) {
	a := testArgs()
	a.ApplySupervisedDefaults()
	corpus := "__label__pos super film toll\n__label__neg schlechter film\n"
	d := buildDict(t, corpus, a)

	if d.NWords() != 5 || d.NLabels() != 2 {
		t.Fatalf("NWords = %d, NLabels = %d", d.NWords(), d.NLabels())
	}
	if d.Label(0) != "__label__pos" || d.Label(1) != "__label__neg" {
		t.Errorf("Labels: %q, %q", d.Label(0), d.Label(1))
	}
	if diff := cmp.Diff([]int64{1, 1}, d.Counts(EntryLabel)); diff != "" {
		t.Errorf("Counts(EntryLabel) weicht ab:\n%s", diff)
	}
	// Labels liegen hinter den Woertern
	if d.ID("__label__pos") != d.NWords() {
		t.Errorf("Label-Id = %d, erwartet %d", d.ID("__label__pos"), d.NWords())
	}
}

// TestReadFromFileEmptyVocab prueft den Fehler bei zu hartem Pruning
func TestReadFromFileEmptyVocab(t *testing.T) {
	a := testArgs()
	a.MinCount = 100
	d := New(a)
	err := d.ReadFromFile(strings.NewReader("ein kurzer satz\n"))
	if !errors.Is(err, ErrEmptyVocab) {
		t.Errorf("erwarte ErrEmptyVocab, bekam %v", err)
	}
}

// TestThreshold prueft das nachtraegliche Pruning
func TestThreshold(t *testing.T) {
	corpus := "der hund beisst den mann\nder mann beisst den hund\nder hund schlaeft\n"
	d := buildDict(t, corpus, testArgs())

	d.Threshold(3, 0)
	if d.NWords() != 3 {
		t.Fatalf("NWords nach Threshold = %d, erwartet 3", d.NWords())
	}
	if d.ID("mann") != -1 || d.ID("der") == -1 {
		t.Errorf("Pruning inkonsistent: mann=%d der=%d", d.ID("mann"), d.ID("der"))
	}
	if d.Size() != 3 {
		t.Errorf("Size = %d, erwartet 3", d.Size())
	}
}

// TestSubwords prueft die Zeichen-N-Gram-Expansion
func TestSubwords(t *testing.T) {
	d := buildDict(t, "where where where\n", testArgs())
	id := d.ID("where")

	// "<where>" hat 7 Zeichen: 5+4+3+2 N-Grams der Laengen 3..6 plus das Wort selbst
	sw := d.Subwords(id)
	if len(sw) != 15 {
		t.Fatalf("len(Subwords) = %d, erwartet 15", len(sw))
	}
	if sw[0] != id {
		t.Errorf("Subwords[0] = %d, erwartet Wort-Id %d", sw[0], id)
	}
	for _, s := range sw[1:] {
		if s < d.NWords() || s >= d.NWords()+int32(d.args.Bucket) {
			t.Errorf("N-Gram-Id %d ausserhalb des Bucket-Raums", s)
		}
	}
}

// TestSubwordsUTF8 prueft, dass N-Grams in Zeichen statt Bytes zaehlen
func TestSubwordsUTF8(t *testing.T) {
	d := buildDict(t, "über über\n", testArgs())

	// "<über>" hat 6 Zeichen (7 Bytes): 4+3+2+1 N-Grams plus das Wort selbst
	sw := d.Subwords(d.ID("über"))
	if len(sw) != 11 {
		t.Errorf("len(Subwords) = %d, erwartet 11", len(sw))
	}
}

// TestSubwordsOf prueft die Expansion unbekannter Tokens
func TestSubwordsOf(t *testing.T) {
	d := buildDict(t, "hallo welt\n", testArgs())

	if diff := cmp.Diff(d.Subwords(d.ID("hallo")), d.SubwordsOf("hallo")); diff != "" {
		t.Errorf("SubwordsOf(hallo) weicht ab:\n%s", diff)
	}

	oov := d.SubwordsOf("zzz")
	if len(oov) == 0 {
		t.Fatal("SubwordsOf(zzz) darf nicht leer sein")
	}
	for _, s := range oov {
		if s < d.NWords() || s >= d.NWords()+int32(d.args.Bucket) {
			t.Errorf("N-Gram-Id %d ausserhalb des Bucket-Raums", s)
		}
	}

	if got := d.SubwordsOf(EOS); len(got) != 0 {
		t.Errorf("SubwordsOf(EOS) = %v, erwartet leer", got)
	}
}

// TestGetLine prueft Tokenisierung in Wort- und Label-Ids
func TestGetLine(t *testing.T) {
	a := testArgs()
	a.ApplySupervisedDefaults()
	d := buildDict(t, "__label__a foo bar\nfoo baz\n", a)

	// Haeufigkeiten: foo=2, </s>=2, bar=1, baz=1, Label dahinter
	rng := rand.New(rand.NewSource(7))
	tr := NewTokenReader(strings.NewReader("__label__a foo bar\nfoo baz\n"))

	var words, labels []int32
	n, err := d.GetLine(tr, &words, &labels, rng)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if n != 4 {
		t.Errorf("ntokens = %d, erwartet 4", n)
	}
	if diff := cmp.Diff([]int32{0, 2, 1}, words); diff != "" {
		t.Errorf("words weicht ab:\n%s", diff)
	}
	if diff := cmp.Diff([]int32{0}, labels); diff != "" {
		t.Errorf("labels weicht ab:\n%s", diff)
	}

	n, err = d.GetLine(tr, &words, &labels, rng)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if n != 3 || len(labels) != 0 {
		t.Errorf("zweite Zeile: ntokens=%d labels=%v", n, labels)
	}

	if _, err := d.GetLine(tr, &words, &labels, rng); !errors.Is(err, io.EOF) {
		t.Errorf("erwarte io.EOF, bekam %v", err)
	}
}

// TestGetLineSubsampling prueft die Discard-Logik an den Extremen
func TestGetLineSubsampling(t *testing.T) {
	// t=1: Behalte-Wahrscheinlichkeit >= 1, nichts faellt weg
	a := testArgs()
	a.T = 1
	d := buildDict(t, "a b c\n", a)
	rng := rand.New(rand.NewSource(1))
	tr := NewTokenReader(strings.NewReader("a b c\n"))
	var words, labels []int32
	if _, err := d.GetLine(tr, &words, &labels, rng); err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if len(words) != 4 {
		t.Errorf("mit t=1 muessen alle 4 Tokens bleiben, bekam %d", len(words))
	}

	// t=0: Behalte-Wahrscheinlichkeit 0, alles faellt weg
	a2 := testArgs()
	a2.T = 0
	d2 := buildDict(t, "a b c\n", a2)
	tr2 := NewTokenReader(strings.NewReader("a b c\n"))
	if _, err := d2.GetLine(tr2, &words, &labels, rng); err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("mit t=0 muss alles wegfallen, bekam %v", words)
	}

	// Ueberwachtes Training ignoriert Subsampling
	a3 := testArgs()
	a3.ApplySupervisedDefaults()
	a3.T = 0
	d3 := buildDict(t, "a b c\n", a3)
	tr3 := NewTokenReader(strings.NewReader("a b c\n"))
	if _, err := d3.GetLine(tr3, &words, &labels, rng); err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if len(words) != 4 {
		t.Errorf("ueberwacht darf nichts wegfallen, bekam %d Tokens", len(words))
	}
}

// TestAddWordNgrams prueft den rollenden N-Gram-Hash
func TestAddWordNgrams(t *testing.T) {
	d := buildDict(t, "a b\n", testArgs())

	// Ids in Lesereihenfolge: a=0, b=1, </s>=2
	line := []int32{0, 1}
	d.AddWordNgrams(&line, 2)

	// Bigram-Hash: h = 0*116049371 + 1 = 1, Id = nwords + 1%bucket
	want := []int32{0, 1, d.NWords() + 1}
	if diff := cmp.Diff(want, line); diff != "" {
		t.Errorf("Bigram weicht ab:\n%s", diff)
	}

	// Ordnung 1 fuegt nichts hinzu
	line = []int32{0, 1}
	d.AddWordNgrams(&line, 1)
	if len(line) != 2 {
		t.Errorf("Ordnung 1 darf nichts anhaengen, bekam %v", line)
	}
}

// TestTokenReader prueft Separatoren, EOS und BOM-Behandlung
func TestTokenReader(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"einfach", "hallo welt\nfoo", []string{"hallo", "welt", EOS, "foo"}},
		{"bom", "\uFEFFhallo welt\n", []string{"hallo", "welt", EOS}},
		{"crlf", "a\r\nb\n", []string{"a", EOS, "b", EOS}},
		{"mehrfach-separator", "a\t\tb  c\n", []string{"a", "b", "c", EOS}},
		{"leer", "", nil},
		{"leere zeilen", "\n\n", []string{EOS, EOS}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := NewTokenReader(strings.NewReader(c.input))
			var got []string
			for {
				tok, err := tr.Read()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("Read: %v", err)
				}
				got = append(got, tok)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Tokens weichen ab:\n%s", diff)
			}
		})
	}
}

// TestTokenReaderAt prueft Partitionseinstieg und Rewind
func TestTokenReaderAt(t *testing.T) {
	content := "erste zeile\nzweite zeile\ndritte zeile\n"

	tr, err := NewTokenReaderAt(strings.NewReader(content), 3)
	if err != nil {
		t.Fatalf("NewTokenReaderAt: %v", err)
	}

	// Die angeschnittene erste Zeile wird uebersprungen
	tok, err := tr.Read()
	if err != nil || tok != "zweite" {
		t.Fatalf("Read = %q, %v, erwartet zweite", tok, err)
	}

	// Bis zum Ende lesen, dann an den Partitionsanfang zurueck
	for {
		if _, err := tr.Read(); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	if err := tr.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	tok, err = tr.Read()
	if err != nil || tok != "zweite" {
		t.Errorf("nach Rewind: %q, %v, erwartet zweite", tok, err)
	}

	// Offset 0 liest ohne Ueberspringen von vorn
	tr0, err := NewTokenReaderAt(strings.NewReader(content), 0)
	if err != nil {
		t.Fatalf("NewTokenReaderAt(0): %v", err)
	}
	tok, err = tr0.Read()
	if err != nil || tok != "erste" {
		t.Errorf("Read = %q, %v, erwartet erste", tok, err)
	}
}

// TestDictSaveLoad prueft die binaere Persistenz
func TestDictSaveLoad(t *testing.T) {
	a := testArgs()
	a.ApplySupervisedDefaults()
	d := buildDict(t, "__label__a foo bar\nfoo baz\n", a)

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	l, err := Load(&buf, a)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if l.Size() != d.Size() || l.NWords() != d.NWords() || l.NLabels() != d.NLabels() {
		t.Fatalf("Kopfzahlen weichen ab: %d/%d/%d", l.Size(), l.NWords(), l.NLabels())
	}
	if l.NTokens() != d.NTokens() {
		t.Errorf("NTokens = %d, erwartet %d", l.NTokens(), d.NTokens())
	}
	if diff := cmp.Diff(d.Counts(EntryWord), l.Counts(EntryWord)); diff != "" {
		t.Errorf("Counts weichen ab:\n%s", diff)
	}
	for _, w := range []string{"foo", "bar", "baz", EOS, "__label__a"} {
		if l.ID(w) != d.ID(w) {
			t.Errorf("ID(%q) = %d, erwartet %d", w, l.ID(w), d.ID(w))
		}
	}
	// Subwords werden beim Laden reproduziert
	if diff := cmp.Diff(d.Subwords(d.ID("foo")), l.Subwords(l.ID("foo"))); diff != "" {
		t.Errorf("Subwords weichen ab:\n%s", diff)
	}
}

// TestDictLoadCorrupt prueft Fehler bei abgeschnittenen Daten
func TestDictLoadCorrupt(t *testing.T) {
	d := buildDict(t, "foo bar baz\n", testArgs())

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	short := buf.Bytes()[:buf.Len()-4]
	if _, err := Load(bytes.NewReader(short), d.args); err == nil {
		t.Error("Load mit abgeschnittenen Daten muss fehlschlagen")
	}
}
