package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/nedpals/hlasmls/analysis"
	symbolStore "github.com/nedpals/hlasmls/analysis/store"
	"github.com/nedpals/hlasmls/helpers"
	"github.com/nedpals/hlasmls/journal"
	"github.com/nedpals/hlasmls/lsp_server"
	"github.com/nedpals/hlasmls/release"
	"github.com/spf13/cobra"
)

// errExitStatus makes the process exit with status 1 without printing
// anything else.
var errExitStatus = errors.New("exit status 1")

var rootCmd = &cobra.Command{
	Use:     "hlasmls",
	Version: release.Version(),
	Short:   "hlasmls is a symbol indexer and language server for fixed-column assembler sources.",
	// main reports errors itself
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// change data-dir if present
		if dataDir, _ := cmd.Flags().GetString("data-dir"); len(dataDir) != 0 {
			helpers.SetDataDirPath(dataDir)
		}
	},
}

func serverLog(cmd *cobra.Command) *log.Logger {
	var writer io.Writer = io.Discard
	if isVerbose, _ := cmd.Flags().GetBool("verbose"); isVerbose {
		writer = os.Stderr
	}
	return log.New(writer, "server> ", 0)
}

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Starts a language server to be consumed by LSP-supported editors",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := lsp_server.Options{
			Version: release.Version(),
			Log:     serverLog(cmd),
		}

		if withJournal, _ := cmd.Flags().GetBool("journal"); withJournal {
			j, err := journal.NewJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			opts.Journal = j
			opts.Log.Printf("Recording diagnostics as session %s\n", j.SessionId())
		}

		if addr, _ := cmd.Flags().GetString("listen"); len(addr) != 0 {
			return lsp_server.Listen(addr, opts)
		}

		if code := lsp_server.Start(opts); code != 0 {
			return errExitStatus
		}
		return nil
	},
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols [file-path]",
	Short: "Lists the symbols defined in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := cmd.Flags().GetString("filter")
		if err != nil {
			return err
		}

		symbols := symbolStore.NewSymbolStore()
		listing, err := indexFile(helpers.NewSharedFS(), symbols, args[0])
		if err != nil {
			return err
		}

		if len(filter) != 0 {
			listing = filterSymbols(listing, symbols.Search(filter))
		}

		writeSymbols(cmd.OutOrStdout(), args[0], listing)
		return nil
	},
}

var definitionCmd = &cobra.Command{
	Use:   "definition [file-path] [line] [column]",
	Short: "Prints the definition of the name at the given position (1-based)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid line %q: %w", args[1], err)
		}

		column, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid column %q: %w", args[2], err)
		}

		cmd.SilenceUsage = true
		found, err := resolveDefinition(cmd.OutOrStdout(), helpers.NewSharedFS(), args[0], line, column)
		if err != nil {
			return err
		} else if !found {
			return errExitStatus
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [glob...]",
	Short: "Reports lines exceeding the maximum line length",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxLen, err := cmd.Flags().GetInt("max-line-length")
		if err != nil {
			return err
		}

		watch, err := cmd.Flags().GetBool("watch")
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		sfs := helpers.NewSharedFS()

		problems, err := checkFiles(cmd.OutOrStdout(), sfs, args, maxLen)
		if err != nil {
			return err
		}

		if watch {
			cw, err := newCheckWatcher(sfs, args, maxLen)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return cw.Run(ctx, cmd.OutOrStdout())
		} else if problems > 0 {
			return errExitStatus
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [journal.db...]",
	Short: "Summarizes diagnostics journals. The results will be saved to an excel file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		paths, err := expandJournalPaths(args)
		if err != nil {
			return err
		}

		wb, err := buildReport(paths)
		if err != nil {
			return err
		}

		if err := wb.Save(output); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "saved report of %d journal/s to %s\n", len(paths), output)
		return nil
	},
}

func expandJournalPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		dirPath, err := helpers.GetOrInitializeDataDir()
		if err != nil {
			return nil, err
		}
		return []string{filepath.Join(dirPath, journal.FileName)}, nil
	}

	paths := []string{}
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}

		for _, match := range matches {
			// check if match is a directory
			fi, err := os.Stat(match)
			if err != nil {
				return nil, err
			}

			if fi.IsDir() {
				return nil, fmt.Errorf("%s: directories are not supported", match)
			}

			paths = append(paths, match)
		}
	}

	if len(paths) == 0 {
		return nil, errors.New("no journal matched the given paths")
	}
	return paths, nil
}

func init() {
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(definitionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose mode")
	rootCmd.PersistentFlags().String("data-dir", "", "the directory for hlasmls data. To override the default directory, set the HLASMLS_DIR environment variable.")
	lspCmd.Flags().String("listen", "", "accept editors over TCP on the given address instead of stdio")
	lspCmd.Flags().Bool("journal", false, "record published diagnostics to the journal in the data directory")
	symbolsCmd.Flags().String("filter", "", "only list symbols fuzzily matching the given name")
	checkCmd.Flags().Int("max-line-length", analysis.DefaultMaxLineLength, "the maximum number of characters per line")
	checkCmd.Flags().BoolP("watch", "w", false, "keep checking the files as they change")
	reportCmd.Flags().StringP("output", "o", "report.xlsx", "the spreadsheet to write")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errExitStatus) {
			os.Exit(1)
		}
		log.Fatalln(err)
	}
}
