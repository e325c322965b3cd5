// Package cmd is the bank2ledger command line.
package cmd

import (
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

var verbose, quiet bool
var colorMode string
var highlightColor string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bank2ledger",
	Short: "Convert bank exports into ledger journal entries",
	Long: `bank2ledger turns the rows of a bank export (CSV, XLSX or QIF) into
double-entry journal entries, classifying each row with the rule tables of a
per-bank configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	cc.Init(&cc.Config{
		RootCmd:  rootCmd,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})

	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also report excluded rows.")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only report errors.")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize diagnostics: auto, always or never.")
	rootCmd.PersistentFlags().StringVar(&highlightColor, "highlight", "#e5c07b", "Hex color of unmatched hints in diagnostics.")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}
