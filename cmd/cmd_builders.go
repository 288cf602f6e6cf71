// cmd_builders.go - Command-Builder Funktionen
// Hauptfunktionen: newSkipgramCmd, newSupervisedCmd, etc.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wortvek/wortvek/args"
)

// addTrainFlags - Registriert die gemeinsamen Trainings-Flags.
// Die Defaults kommen aus dem Preset des jeweiligen Modus, damit die
// Hilfe die tatsaechlichen Werte zeigt.
func addTrainFlags(cmd *cobra.Command, d args.Args) {
	flags := cmd.Flags()
	flags.String("input", "", "Training corpus, one text per line")
	flags.String("output", "", "Output prefix, writes PREFIX.bin (and PREFIX.vec for word models)")
	flags.String("config", "", "YAML file with training options")
	flags.String("pretrained", "", "Pretrained .vec file to seed the input vectors")
	flags.Float64("lr", d.LR, "Learning rate")
	flags.Int("lr-update-rate", d.LRUpdateRate, "Tokens between learning rate updates")
	flags.Int("dim", d.Dim, "Size of word vectors")
	flags.Int("ws", d.WS, "Size of the context window")
	flags.Int("epoch", d.Epoch, "Number of passes over the corpus")
	flags.Int("min-count", d.MinCount, "Minimal number of word occurrences")
	flags.Int("min-count-label", d.MinCountLabel, "Minimal number of label occurrences")
	flags.Int("neg", d.Neg, "Number of negatives sampled")
	flags.Int("word-ngrams", d.WordNgrams, "Max length of word ngrams")
	flags.String("loss", d.Loss.String(), "Loss function: ns, hs or softmax")
	flags.Int("bucket", d.Bucket, "Number of hash buckets for ngram features")
	flags.Int("minn", d.Minn, "Min length of char ngrams")
	flags.Int("maxn", d.Maxn, "Max length of char ngrams")
	flags.Int("thread", d.Thread, "Number of training threads")
	flags.Float64("t", d.T, "Sampling threshold")
	flags.String("label", d.Label, "Label prefix")
	flags.Int("verbose", d.Verbose, "Verbosity level")
	flags.Bool("save-f16", d.SaveF16, "Store matrices in half precision")
}

// newSkipgramCmd - Erstellt den skipgram Command
func newSkipgramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skipgram",
		Short: "Train word vectors with the skipgram model",
		Args:  cobra.ExactArgs(0),
		RunE:  SkipgramHandler,
	}

	addTrainFlags(cmd, trainDefaults(args.ModelSkipgram))

	return cmd
}

// newCBOWCmd - Erstellt den cbow Command
func newCBOWCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cbow",
		Short: "Train word vectors with the continuous bag of words model",
		Args:  cobra.ExactArgs(0),
		RunE:  CBOWHandler,
	}

	addTrainFlags(cmd, trainDefaults(args.ModelCBOW))

	return cmd
}

// newSupervisedCmd - Erstellt den supervised Command
func newSupervisedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supervised",
		Short: "Train a text classifier on labeled lines",
		Args:  cobra.ExactArgs(0),
		RunE:  SupervisedHandler,
	}

	addTrainFlags(cmd, trainDefaults(args.ModelSupervised))

	return cmd
}

// newTestCmd - Erstellt den test Command
func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test MODEL TESTFILE",
		Short: "Evaluate a classifier on labeled lines",
		Args:  cobra.ExactArgs(2),
		RunE:  TestHandler,
	}

	cmd.Flags().Int("k", 1, "Evaluate precision and recall at k")

	return cmd
}

// newPredictCmd - Erstellt den predict Command
func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict MODEL [FILE]",
		Short: "Predict labels for lines of text",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  PredictHandler,
	}

	cmd.Flags().Int("k", 1, "Number of labels per line")
	cmd.Flags().Bool("prob", false, "Print the probability next to each label")

	return cmd
}

// newVectorsCmd - Erstellt den vectors Command
func newVectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vectors MODEL [FILE]",
		Short: "Print vectors for words or whole texts",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  VectorsHandler,
	}

	cmd.Flags().Bool("text", false, "Read whole lines and print text vectors")

	return cmd
}

// newNNCmd - Erstellt den nn Command
func newNNCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nn MODEL [WORD...]",
		Short: "Query the nearest neighbors of a word",
		Args:  cobra.MinimumNArgs(1),
		RunE:  NNHandler,
	}

	cmd.Flags().Int("k", 10, "Number of neighbors")

	return cmd
}

// newAnalogyCmd - Erstellt den analogy Command
func newAnalogyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analogy MODEL A B C",
		Short: "Solve A is to B as C is to ...",
		Args:  cobra.ExactArgs(4),
		RunE:  AnalogyHandler,
	}

	cmd.Flags().Int("k", 10, "Number of answers")

	return cmd
}

// newShowCmd - Erstellt den show Command
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show MODEL",
		Short: "Show information for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  ShowHandler,
	}
}

// newServeCmd - Erstellt den serve Command
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve MODEL",
		Aliases: []string{"start"},
		Short:   "Serve a model over HTTP",
		Args:    cobra.ExactArgs(1),
		RunE:    RunServer,
	}
}
