package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coBecT/MtsTrueTech/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "labtrack",
	Short: "Experiment tracker for R&D teams",
	Long: `labtrack keeps track of research experiments.

Search and compare experiments, attach files, record versions with typed
parameters and get notified when a critical parameter leaves its safe range.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		setLogging(cfg.Log)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./labtrack.yaml)")
	rootCmd.PersistentFlags().String("log", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("driver", config.DriverMemory, "Storage driver (memory|libsql)")
	rootCmd.PersistentFlags().String("database-url", "", "libsql database URL (file:path.db or libsql://host)")
	rootCmd.PersistentFlags().String("files-dir", "", "Directory for experiment files (default: XDG data dir)")

	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.DriverMemory, config.DriverLibsql}, cobra.ShellCompDirectiveNoFileComp
	})
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
