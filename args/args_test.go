// args_test.go - Tests fuer Optionen, Enums und Persistenz
package args

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestParseModelName prueft Namen und Aliase der Trainingsmodi
func TestParseModelName(t *testing.T) {
	cases := []struct {
		in   string
		want ModelName
	}{
		{"cbow", ModelCBOW},
		{"skipgram", ModelSkipgram},
		{"sg", ModelSkipgram},
		{"supervised", ModelSupervised},
		{"sup", ModelSupervised},
	}

	for _, c := range cases {
		got, err := ParseModelName(c.in)
		if err != nil {
			t.Fatalf("ParseModelName(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseModelName(%q) = %v, erwartet %v", c.in, got, c.want)
		}
	}

	if _, err := ParseModelName("glove"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("ParseModelName(glove): erwarte ErrUnknownModel, bekam %v", err)
	}
}

// TestParseLossName prueft die Loss-Namen
func TestParseLossName(t *testing.T) {
	for _, name := range []string{"hs", "ns", "softmax"} {
		l, err := ParseLossName(name)
		if err != nil {
			t.Fatalf("ParseLossName(%q): %v", name, err)
		}
		if l.String() != name {
			t.Errorf("String() = %q, erwartet %q", l.String(), name)
		}
	}

	if _, err := ParseLossName("hinge"); !errors.Is(err, ErrUnknownLoss) {
		t.Errorf("ParseLossName(hinge): erwarte ErrUnknownLoss, bekam %v", err)
	}
}

// TestDefault prueft die wichtigsten Standardwerte
func TestDefault(t *testing.T) {
	a := Default()

	if a.Dim != 100 || a.WS != 5 || a.Epoch != 5 {
		t.Errorf("unerwartete Defaults: dim=%d ws=%d epoch=%d", a.Dim, a.WS, a.Epoch)
	}
	if a.Model != ModelSkipgram || a.Loss != LossNegativeSampling {
		t.Errorf("unerwartete Defaults: model=%v loss=%v", a.Model, a.Loss)
	}
	if a.LR != 0.05 || a.T != 1e-4 {
		t.Errorf("unerwartete Defaults: lr=%g t=%g", a.LR, a.T)
	}
	if a.Label != "__label__" {
		t.Errorf("unerwartetes Label-Prefix: %q", a.Label)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Default muss valide sein: %v", err)
	}
}

// TestApplySupervisedDefaults prueft das Klassifikations-Preset
func TestApplySupervisedDefaults(t *testing.T) {
	a := Default()
	a.ApplySupervisedDefaults()

	if a.Model != ModelSupervised || a.Loss != LossSoftmax {
		t.Errorf("Preset: model=%v loss=%v", a.Model, a.Loss)
	}
	if a.MinCount != 1 || a.Minn != 0 || a.Maxn != 0 {
		t.Errorf("Preset: minCount=%d minn=%d maxn=%d", a.MinCount, a.Minn, a.Maxn)
	}
	if a.LR != 0.1 {
		t.Errorf("Preset: lr=%g, erwartet 0.1", a.LR)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Preset muss valide sein: %v", err)
	}
}

// TestValidate prueft die Fehlerfaelle der Konsistenzpruefung
func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Args)
	}{
		{"dim null", func(a *Args) { a.Dim = 0 }},
		{"ws negativ", func(a *Args) { a.WS = -1 }},
		{"epoch null", func(a *Args) { a.Epoch = 0 }},
		{"thread null", func(a *Args) { a.Thread = 0 }},
		{"lr null", func(a *Args) { a.LR = 0 }},
		{"minn groesser maxn", func(a *Args) { a.Minn = 7; a.Maxn = 3 }},
		{"wordNgrams null", func(a *Args) { a.WordNgrams = 0 }},
		{"neg negativ", func(a *Args) { a.Neg = -1 }},
		{"model unbekannt", func(a *Args) { a.Model = 99 }},
		{"loss unbekannt", func(a *Args) { a.Loss = 99 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := Default()
			c.mutate(&a)
			if err := a.Validate(); err == nil {
				t.Errorf("Validate() muss fehlschlagen")
			}
		})
	}
}

// TestSaveLoadRoundTrip prueft die binaere Persistenz
func TestSaveLoadRoundTrip(t *testing.T) {
	a := Default()
	a.Dim = 64
	a.MinCountLabel = 3
	a.Label = "__klasse__"
	a.SaveF16 = true
	a.Input = "/tmp/korpus.txt" // darf nicht persistiert werden

	var buf bytes.Buffer
	if err := a.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var b Args
	if err := b.Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if b.Dim != 64 || b.MinCountLabel != 3 || b.Label != "__klasse__" || !b.SaveF16 {
		t.Errorf("Round-Trip verlor Felder: %+v", b)
	}
	if b.Model != a.Model || b.Loss != a.Loss || b.T != a.T || b.LR != a.LR {
		t.Errorf("Round-Trip verlor Felder: %+v", b)
	}
	if b.Input != "" {
		t.Errorf("Input darf nicht persistiert werden, bekam %q", b.Input)
	}
}

// TestLoadTruncated prueft den Fehlerfall bei abgeschnittenen Daten
func TestLoadTruncated(t *testing.T) {
	a := Default()
	var buf bytes.Buffer
	if err := a.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	short := buf.Bytes()[:buf.Len()/2]
	var b Args
	if err := b.Load(bytes.NewReader(short)); err == nil {
		t.Fatal("Load mit abgeschnittenen Daten muss fehlschlagen")
	}
}

// TestApplyFile prueft das YAML-Overlay
func TestApplyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.yaml")
	content := "dim: 25\nlr: 0.5\nmodel: supervised\nloss: softmax\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := Default()
	if err := a.ApplyFile(path); err != nil {
		t.Fatalf("ApplyFile: %v", err)
	}

	if a.Dim != 25 || a.LR != 0.5 {
		t.Errorf("Overlay nicht uebernommen: dim=%d lr=%g", a.Dim, a.LR)
	}
	if a.Model != ModelSupervised || a.Loss != LossSoftmax {
		t.Errorf("Overlay nicht uebernommen: model=%v loss=%v", a.Model, a.Loss)
	}
	// Nicht gesetzte Keys behalten ihre Defaults
	if a.WS != 5 || a.Epoch != 5 {
		t.Errorf("Defaults ueberschrieben: ws=%d epoch=%d", a.WS, a.Epoch)
	}
}

// TestApplyFileUnknownModel prueft die Fehlerweitergabe aus dem Overlay
func TestApplyFileUnknownModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kaputt.yaml")
	if err := os.WriteFile(path, []byte("model: glove\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := Default()
	if err := a.ApplyFile(path); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("erwarte ErrUnknownModel, bekam %v", err)
	}
}
