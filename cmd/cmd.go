// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wortvek/wortvek/envconfig"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "wortvek",
		Short:         "Fast word vectors and text classification",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	// Commands erstellen
	skipgramCmd := newSkipgramCmd()
	cbowCmd := newCBOWCmd()
	supervisedCmd := newSupervisedCmd()
	testCmd := newTestCmd()
	predictCmd := newPredictCmd()
	vectorsCmd := newVectorsCmd()
	nnCmd := newNNCmd()
	analogyCmd := newAnalogyCmd()
	showCmd := newShowCmd()
	serveCmd := newServeCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()

	for _, cmd := range []*cobra.Command{skipgramCmd, cbowCmd, supervisedCmd, serveCmd} {
		switch cmd {
		case serveCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["WORTVEK_DEBUG"],
				envVars["WORTVEK_HOST"],
				envVars["WORTVEK_ORIGINS"],
			})
		default:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["WORTVEK_THREADS"],
				envVars["WORTVEK_NOPROGRESS"],
			})
		}
	}

	rootCmd.AddCommand(
		skipgramCmd,
		cbowCmd,
		supervisedCmd,
		testCmd,
		predictCmd,
		vectorsCmd,
		nnCmd,
		analogyCmd,
		showCmd,
		serveCmd,
	)

	return rootCmd
}
