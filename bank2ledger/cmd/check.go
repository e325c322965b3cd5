package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a bank configuration without converting anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, _, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if learnPath != "" {
			model, err := trainModel(learnPath, settings.DefaultFirstAccount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: learned %d accounts for %s\n", learnPath, len(model.Accounts()), model.Account())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&configPath, "config", "c", "", "Bank configuration file (TOML or YAML).")
	checkCmd.Flags().StringVar(&learnPath, "learn", "", "Also check that this journal can be learned from.")
	checkCmd.MarkFlagRequired("config")
}
