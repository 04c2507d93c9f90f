package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/retrograde/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "retrograde [timestamp...]",
	Short: "Report which celestial bodies are in retrograde at a given time",
	Long: `Retrograde looks up Unix timestamps (seconds, UTC) in a precomputed table of
retrograde states and prints the bodies in apparent retrograde motion.

With timestamps as arguments it behaves like "retrograde lookup".`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runRootDefault,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.New(os.Stdout, os.Stderr, ui.Options{}).Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .retrograde.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("data", "", "table file (.toml or .sqlite); default is the built-in table")
	rootCmd.PersistentFlags().String("format", "text", "output format: text or json")
	rootCmd.PersistentFlags().String("color", "auto", "color output: auto, always or never")
	rootCmd.PersistentFlags().String("telemetry", "", "append JSONL query events to this file")
	rootCmd.PersistentFlags().Bool("since", false, "also show when the matched state began")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("data_path", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("telemetry_path", rootCmd.PersistentFlags().Lookup("telemetry"))
	_ = viper.BindPFlag("since", rootCmd.PersistentFlags().Lookup("since"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".retrograde")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("RETROGRADE")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// runRootDefault answers any timestamps given as arguments and otherwise
// shows help.
func runRootDefault(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return runLookup(cmd, args)
}
