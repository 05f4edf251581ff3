package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/hill-rider/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration after the search order and the global flags
have been applied. With --defaults the embedded default file is printed
instead, ready to be copied to ~/.rider/configs/rider.yaml.

Examples:
  rider config
  rider config --defaults > ~/.rider/configs/rider.yaml
  rider config --difficulty hard --strategy chunk`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the embedded default config")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if flagConfigDefaults {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(e.cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
