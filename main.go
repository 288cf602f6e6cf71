// main.go - Einstiegspunkt der wortvek CLI
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wortvek/wortvek/cmd"
	"github.com/wortvek/wortvek/envconfig"
	"github.com/wortvek/wortvek/logutil"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))

	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
