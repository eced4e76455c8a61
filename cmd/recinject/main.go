// Command recinject assembles the pages of a site from its shared template,
// either one page at a time or as a pre-rendering development server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"impractical.co/recinject"
)

var (
	configPath string
	logLevel   string
	cfg        Config
)

var rootCmd = &cobra.Command{
	Use:           "recinject",
	Short:         "Assemble site pages from a shared header, hero and footer template",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := loadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		slog.SetDefault(newLogger(cfg.LogLevel))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("recinject failed", "error", err)
		os.Exit(1)
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func commandContext(cmd *cobra.Command) context.Context {
	return recinject.LoggingContext(cmd.Context(), slog.Default())
}
