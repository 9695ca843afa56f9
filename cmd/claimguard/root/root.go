// Package root wires the claimguard command tree.
package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nithinmohantk/claimguard/cmd/claimguard/analyze"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "claimguard",
	Short: "Healthcare claim anomaly and fraud-ring analysis",
	Long: `ClaimGuard scores healthcare claims with interchangeable anomaly
detection strategies and models the patient-provider relationship
graph to surface suspiciously dense billing circles.`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./claimguard.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(analyze.Cmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(fmt.Sprintf("claimguard version %s\n", rootCmd.Version))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("claimguard")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CLAIMGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Config file is optional
	_ = viper.ReadInConfig()
}
