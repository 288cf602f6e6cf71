// cmd_train.go - Trainings-Handler fuer skipgram, cbow und supervised
// Hauptfunktionen: SkipgramHandler, CBOWHandler, SupervisedHandler
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wortvek/wortvek/args"
	"github.com/wortvek/wortvek/envconfig"
	"github.com/wortvek/wortvek/format"
	"github.com/wortvek/wortvek/progress"
	"github.com/wortvek/wortvek/train"
)

// SkipgramHandler - Trainiert Wortvektoren im Skipgram-Modus
func SkipgramHandler(cmd *cobra.Command, _ []string) error {
	return runTrain(cmd, trainDefaults(args.ModelSkipgram))
}

// CBOWHandler - Trainiert Wortvektoren im CBOW-Modus
func CBOWHandler(cmd *cobra.Command, _ []string) error {
	return runTrain(cmd, trainDefaults(args.ModelCBOW))
}

// SupervisedHandler - Trainiert einen Textklassifikator
func SupervisedHandler(cmd *cobra.Command, _ []string) error {
	return runTrain(cmd, trainDefaults(args.ModelSupervised))
}

// trainDefaults - Startwerte je Trainingsmodus, Threadcount aus der Umgebung
func trainDefaults(mode args.ModelName) args.Args {
	a := args.Default()
	a.Thread = envconfig.Threads()
	if mode == args.ModelSupervised {
		a.ApplySupervisedDefaults()
	} else {
		a.Model = mode
	}
	return a
}

// trainArgs - Mischt Preset, Konfigurationsdatei und Flags.
// Explizit gesetzte Flags schlagen die Konfigurationsdatei, die
// Konfigurationsdatei schlaegt das Preset.
func trainArgs(cmd *cobra.Command, a *args.Args) error {
	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		if err := a.ApplyFile(path); err != nil {
			return err
		}
	}

	if flags.Changed("input") {
		a.Input, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		a.Output, _ = flags.GetString("output")
	}
	if flags.Changed("pretrained") {
		a.Pretrained, _ = flags.GetString("pretrained")
	}
	if flags.Changed("lr") {
		a.LR, _ = flags.GetFloat64("lr")
	}
	if flags.Changed("lr-update-rate") {
		a.LRUpdateRate, _ = flags.GetInt("lr-update-rate")
	}
	if flags.Changed("dim") {
		a.Dim, _ = flags.GetInt("dim")
	}
	if flags.Changed("ws") {
		a.WS, _ = flags.GetInt("ws")
	}
	if flags.Changed("epoch") {
		a.Epoch, _ = flags.GetInt("epoch")
	}
	if flags.Changed("min-count") {
		a.MinCount, _ = flags.GetInt("min-count")
	}
	if flags.Changed("min-count-label") {
		a.MinCountLabel, _ = flags.GetInt("min-count-label")
	}
	if flags.Changed("neg") {
		a.Neg, _ = flags.GetInt("neg")
	}
	if flags.Changed("word-ngrams") {
		a.WordNgrams, _ = flags.GetInt("word-ngrams")
	}
	if flags.Changed("bucket") {
		a.Bucket, _ = flags.GetInt("bucket")
	}
	if flags.Changed("minn") {
		a.Minn, _ = flags.GetInt("minn")
	}
	if flags.Changed("maxn") {
		a.Maxn, _ = flags.GetInt("maxn")
	}
	if flags.Changed("thread") {
		a.Thread, _ = flags.GetInt("thread")
	}
	if flags.Changed("t") {
		a.T, _ = flags.GetFloat64("t")
	}
	if flags.Changed("label") {
		a.Label, _ = flags.GetString("label")
	}
	if flags.Changed("verbose") {
		a.Verbose, _ = flags.GetInt("verbose")
	}
	if flags.Changed("save-f16") {
		a.SaveF16, _ = flags.GetBool("save-f16")
	}
	if flags.Changed("loss") {
		s, _ := flags.GetString("loss")
		l, err := args.ParseLossName(s)
		if err != nil {
			return err
		}
		a.Loss = l
	}

	return nil
}

// runTrain - Fuehrt das Training aus und speichert Modell und Vektoren
func runTrain(cmd *cobra.Command, preset args.Args) error {
	a := preset
	if err := trainArgs(cmd, &a); err != nil {
		return err
	}
	if a.Input == "" {
		return errors.New("no training corpus, set --input or the input key in --config")
	}
	if a.Output == "" {
		return errors.New("no output prefix, set --output or the output key in --config")
	}

	trainer := &train.Trainer{Args: a}
	stop := renderReports(trainer, os.Stderr)
	m, err := trainer.Train()
	stop()
	if err != nil {
		return err
	}

	if err := m.Save(a.Output + ".bin"); err != nil {
		return err
	}
	// Klassifikatoren bekommen keine .vec-Datei, Wortvektoren schon
	if a.Model == args.ModelSupervised {
		return nil
	}
	return m.SaveVectorsFile(a.Output + ".vec")
}

// renderReports - Verbindet Trainer-Reports mit der Fortschrittsanzeige.
// Ohne Terminal oder mit WORTVEK_NOPROGRESS erscheint nur der
// Abschlussbericht als einzelne Zeile.
func renderReports(trainer *train.Trainer, w *os.File) func() {
	if trainer.Args.Verbose <= 0 {
		return func() {}
	}

	if envconfig.NoProgress() || !term.IsTerminal(int(w.Fd())) {
		trainer.Progress = func(r train.Report) {
			if r.Final {
				fmt.Fprintf(w, "trained %s tokens, loss %.4f, %s tokens/s\n",
					format.HumanNumber(uint64(r.Tokens)), r.Loss,
					format.HumanNumber(uint64(r.TokensPerSec)))
			}
		}
		return func() {}
	}

	p := progress.NewProgress(w)
	bar := progress.NewBar("training:", 100, 0)
	p.Add("train", bar)

	trainer.Progress = func(r train.Report) {
		bar.Set(int64(r.Progress * 100))
		bar.SetStatus(fmt.Sprintf("lr %.4f  loss %.4f  %s tok/s  eta %s",
			r.LR, r.Loss,
			format.HumanNumber(uint64(r.TokensPerSec)),
			format.HumanDuration(r.ETA)))
	}

	return func() { p.Stop() }
}
