package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/plenert/bank2ledger"
	"github.com/plenert/bank2ledger/bank2ledger/config"
	"github.com/plenert/bank2ledger/bank2ledger/journal"
	"github.com/plenert/bank2ledger/bank2ledger/learn"
	"github.com/plenert/bank2ledger/bank2ledger/rowsource"
	"github.com/spf13/cobra"
)

var ErrNoTransactions = errors.New("no transactions file given")

var configPath string
var transactionsPath string
var learnPath string
var strict bool
var noSummary bool

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [transactions-file]",
	Short: "Convert a bank export to ledger journal entries",
	Long: `Convert reads the rows of a bank export and writes one journal entry per
row to standard output. The file format follows the extension: .csv (or any
other), .xlsx, .qif, each optionally compressed as .br. Use - to read
delimited text from standard input.`,
	Example: `  bank2ledger convert -c barclays.toml statement.csv >> 2023.ledger
  bank2ledger convert -c amex.yaml --learn 2023.ledger activity.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := transactionsPath
		if len(args) == 1 {
			input = args[0]
		}
		if input == "" {
			return ErrNoTransactions
		}
		return runConvert(cmd, input)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&configPath, "config", "c", "", "Bank configuration file (TOML or YAML).")
	convertCmd.Flags().StringVarP(&transactionsPath, "transactions-csv", "t", "", "Bank export to convert.")
	convertCmd.Flags().StringVar(&learnPath, "learn", "", "Journal to learn accounts from for payees no rule matches.")
	convertCmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first row that cannot be converted.")
	convertCmd.Flags().BoolVar(&noSummary, "no-summary", false, "Do not print the run summary.")
	convertCmd.MarkFlagRequired("config")
}

func runConvert(cmd *cobra.Command, input string) error {
	start := time.Now()
	stderr := cmd.ErrOrStderr()

	settings, cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	color, err := useColor(colorMode, stderr)
	if err != nil {
		return err
	}
	mark, err := highlighter(highlightColor, color)
	if err != nil {
		return err
	}
	log := newLogger(stderr, logLevel(settings.Debug), color)

	opts := []bank2ledger.Option{
		bank2ledger.WithObserver(eventLogger{log: log, mark: mark}),
		bank2ledger.Strict(strict),
	}
	if learnPath != "" {
		model, err := trainModel(learnPath, settings.DefaultFirstAccount)
		if err != nil {
			return err
		}
		log.Debug().
			Str("journal", learnPath).
			Str("account", model.Account()).
			Strs("accounts", model.Accounts()).
			Msg("learned accounts")
		opts = append(opts, bank2ledger.WithSuggester(model))
	}

	rows, closeRows, err := openRows(cmd, input, rowsource.OptionsFrom(settings))
	if err != nil {
		return err
	}
	defer closeRows()

	summary, err := bank2ledger.NewConverter(cfg, opts...).Convert(rows, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if !noSummary && !quiet {
		writeSummary(stderr, summary, time.Since(start))
	}
	return nil
}

// loadConfig reads and compiles the configuration at path.
func loadConfig(path string) (bank2ledger.Settings, *bank2ledger.Config, error) {
	settings, err := config.Load(path)
	if err != nil {
		return settings, nil, err
	}
	cfg, err := bank2ledger.Compile(settings)
	if err != nil {
		return settings, nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, cfg, nil
}

func trainModel(path, account string) (*learn.Model, error) {
	transactions, err := journal.ParseFile(path)
	if err != nil {
		return nil, err
	}
	matching, err := learn.ResolveAccount(transactions, account)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", path, account, err)
	}
	model, err := learn.Train(transactions, matching)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return model, nil
}

func openRows(cmd *cobra.Command, input string, opts rowsource.Options) (bank2ledger.RowReader, func() error, error) {
	if input == "-" {
		rows, err := rowsource.NewCSV(cmd.InOrStdin(), opts)
		return rows, func() error { return nil }, err
	}
	src, err := rowsource.Open(input, opts)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}
