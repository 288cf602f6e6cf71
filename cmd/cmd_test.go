// cmd_test.go - Tests fuer Flag-Mapping und CLI-Ausgaben
package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wortvek/wortvek/args"
	"github.com/wortvek/wortvek/dict"
	"github.com/wortvek/wortvek/ml"
	"github.com/wortvek/wortvek/model"
)

func TestTrainDefaults(t *testing.T) {
	sg := trainDefaults(args.ModelSkipgram)
	if sg.Model != args.ModelSkipgram || sg.Loss != args.LossNegativeSampling {
		t.Errorf("skipgram preset: model %v loss %v", sg.Model, sg.Loss)
	}
	if sg.Thread <= 0 {
		t.Errorf("thread preset = %d, erwartet > 0", sg.Thread)
	}

	sup := trainDefaults(args.ModelSupervised)
	if sup.Model != args.ModelSupervised || sup.Loss != args.LossSoftmax {
		t.Errorf("supervised preset: model %v loss %v", sup.Model, sup.Loss)
	}
	if sup.MinCount != 1 || sup.Minn != 0 || sup.Maxn != 0 || sup.LR != 0.1 {
		t.Errorf("supervised preset nicht angewendet: %+v", sup)
	}
}

func TestTrainArgsFlags(t *testing.T) {
	cmd := newSkipgramCmd()
	err := cmd.ParseFlags([]string{"--dim", "32", "--loss", "hs", "--min-count", "2", "--t", "0.001"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	got := trainDefaults(args.ModelSkipgram)
	if err := trainArgs(cmd, &got); err != nil {
		t.Fatalf("trainArgs: %v", err)
	}

	want := trainDefaults(args.ModelSkipgram)
	want.Dim = 32
	want.Loss = args.LossHierarchicalSoftmax
	want.MinCount = 2
	want.T = 0.001

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Optionen weichen ab (-want +got):\n%s", diff)
	}
}

func TestTrainArgsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	if err := os.WriteFile(path, []byte("dim: 64\nepoch: 9\nloss: softmax\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Flags schlagen die Konfigurationsdatei, die Datei das Preset
	cmd := newCBOWCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--dim", "32"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	got := trainDefaults(args.ModelCBOW)
	if err := trainArgs(cmd, &got); err != nil {
		t.Fatalf("trainArgs: %v", err)
	}

	want := trainDefaults(args.ModelCBOW)
	want.Dim = 32
	want.Epoch = 9
	want.Loss = args.LossSoftmax

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Optionen weichen ab (-want +got):\n%s", diff)
	}
}

func TestTrainArgsBadLoss(t *testing.T) {
	cmd := newSupervisedCmd()
	if err := cmd.ParseFlags([]string{"--loss", "quux"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	a := trainDefaults(args.ModelSupervised)
	if err := trainArgs(cmd, &a); !errors.Is(err, args.ErrUnknownLoss) {
		t.Errorf("err = %v, erwartet ErrUnknownLoss", err)
	}
}

func TestRunTrainMissingPaths(t *testing.T) {
	cases := []struct {
		name  string
		flags []string
		want  string
	}{
		{"kein Input", nil, "--input"},
		{"kein Output", []string{"--input", "corpus.txt"}, "--output"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newSkipgramCmd()
			if err := cmd.ParseFlags(tc.flags); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}

			err := runTrain(cmd, trainDefaults(args.ModelSkipgram))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, erwartet Hinweis auf %s", err, tc.want)
			}
		})
	}
}

// TestSupervisedCommand laesst den supervised Command einmal komplett
// laufen und prueft die geschriebenen Artefakte
func TestSupervisedCommand(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "train.txt")
	data := bytes.Repeat([]byte("__label__a foo bar\n__label__b baz qux\n"), 20)
	if err := os.WriteFile(corpus, data, 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "model")

	cmd := newSupervisedCmd()
	cmd.SetArgs([]string{
		"--input", corpus,
		"--output", out,
		"--epoch", "10",
		"--dim", "5",
		"--bucket", "64",
		"--thread", "1",
		"--verbose", "0",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	m, err := model.Load(out + ".bin")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Dict().NLabels(); got != 2 {
		t.Errorf("NLabels = %d, erwartet 2", got)
	}
	if preds := m.Predict("foo bar", 1); len(preds) != 1 {
		t.Errorf("Predict liefert %d Labels, erwartet 1", len(preds))
	}

	// Klassifikatoren schreiben keine .vec-Datei
	if _, err := os.Stat(out + ".vec"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat(.vec) = %v, erwartet ErrNotExist", err)
	}
}

// TestSkipgramCommand prueft, dass Wortvektor-Training die .vec-Datei
// neben das Modell schreibt
func TestSkipgramCommand(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "train.txt")
	data := bytes.Repeat([]byte("rot gruen blau gelb\n"), 20)
	if err := os.WriteFile(corpus, data, 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "model")

	cmd := newSkipgramCmd()
	cmd.SetArgs([]string{
		"--input", corpus,
		"--output", out,
		"--epoch", "1",
		"--dim", "4",
		"--min-count", "1",
		"--minn", "2",
		"--maxn", "3",
		"--bucket", "64",
		"--thread", "1",
		"--t", "1",
		"--verbose", "0",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(out + ".vec")
	if err != nil {
		t.Fatalf("Vektordatei fehlt: %v", err)
	}
	if !strings.HasPrefix(string(data), "5 4\n") {
		t.Errorf("Kopfzeile = %q, erwartet \"5 4\"", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestShowInfo(t *testing.T) {
	a := args.Default()
	a.ApplySupervisedDefaults()
	a.Dim = 2
	a.Bucket = 64

	d := dict.New(&a)
	if err := d.ReadFromFile(strings.NewReader("__label__eins foo\n__label__zwei bar\n")); err != nil {
		t.Fatal(err)
	}

	input := ml.NewMatrix(int(d.NWords())+a.Bucket, a.Dim)
	output := ml.NewMatrix(int(d.NLabels()), a.Dim)
	m, err := model.New(&a, d, input, output)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := showInfo(m, &buf); err != nil {
		t.Fatalf("showInfo: %v", err)
	}

	for _, want := range []string{"Model", "supervised", "softmax", "Vocabulary", "words", "__label__"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Ausgabe enthaelt %q nicht:\n%s", want, buf.String())
		}
	}

	// Ohne Zeichen-N-Grams darf die Zeile nicht auftauchen
	if strings.Contains(buf.String(), "char ngrams") {
		t.Errorf("char ngrams Zeile trotz maxn=0:\n%s", buf.String())
	}
}

func TestWriteVector(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	vec := ml.Vector{Data: []float32{1, 0.5, -2}}
	if err := writeVector(w, "foo", vec); err != nil {
		t.Fatalf("writeVector: %v", err)
	}
	w.Flush()

	if got, want := buf.String(), "foo 1 0.5 -2\n"; got != want {
		t.Errorf("Zeile = %q, erwartet %q", got, want)
	}
}
