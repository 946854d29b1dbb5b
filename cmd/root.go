package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/atio-cli/internal/config"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "atio-cli",
	Short: "Agricultural technology and innovation decision support",
	Long:  "Ranks agricultural innovations against a user's region and priorities, projects their impact and produces action reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadFile(configPath)
		if err != nil {
			return eris.Wrap(err, "load config")
		}

		if err := config.InitLogger(c.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		if err := c.Validate(validationMode(cmd)); err != nil {
			return err
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

// validationMode picks the config checks a command needs.
func validationMode(cmd *cobra.Command) string {
	if cmd.Name() == serveCmd.Name() {
		return "serve"
	}
	return "cli"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
