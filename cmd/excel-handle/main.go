package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/negokaz/excel-handle/internal/config"
	"github.com/negokaz/excel-handle/internal/server"
	"github.com/negokaz/excel-handle/internal/session"
	"github.com/negokaz/excel-handle/internal/workbook"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	backend     string
	foreground  bool
	overwrite   bool
	callTimeout time.Duration
)

func main() {
	config.SetupEnvironment()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "excel-handle",
		Short:   "Keep Excel workbooks open as handles",
		Version: version,
		Long: `excel-handle opens a workbook in a spreadsheet application, creating it
when it does not exist, and keeps it open until it is closed.

Commands:
  serve      Serve workbook handles to MCP clients over stdio.
  open       Open or create a workbook and print its worksheets.
  sheet      Fetch or create a worksheet and save the workbook.
  save-as    Save a copy of a workbook to another path.
  constants  Print Excel automation constants.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Host backend: auto, ole or excelize (default: $EXCEL_BACKEND or auto)")
	rootCmd.PersistentFlags().BoolVar(&foreground, "foreground", false, "Show the Excel window and alert dialogs")
	rootCmd.PersistentFlags().BoolVar(&overwrite, "overwrite", false, "Recreate the workbook even if the file already exists")
	rootCmd.PersistentFlags().DurationVar(&callTimeout, "call-timeout", 0, "Timeout for each call into Excel (default: $EXCEL_CALL_TIMEOUT or none)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve workbook handles over MCP stdio",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "open <path>",
			Short: "Open or create a workbook and print its worksheets",
			Args:  cobra.ExactArgs(1),
			RunE:  runOpen,
		},
		&cobra.Command{
			Use:   "sheet <path> <name>",
			Short: "Fetch or create a worksheet and save the workbook",
			Args:  cobra.ExactArgs(2),
			RunE:  runSheet,
		},
		&cobra.Command{
			Use:   "save-as <path> <target>",
			Short: "Save a copy of a workbook to another path",
			Args:  cobra.ExactArgs(2),
			RunE:  runSaveAs,
		},
		&cobra.Command{
			Use:   "constants [name]",
			Short: "Print Excel automation constants",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runConstants,
		},
	)
	return rootCmd
}

// handleOptions merges the environment configuration with the flags set on cmd.
func handleOptions(cmd *cobra.Command) ([]workbook.Option, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("foreground") {
		cfg.Background = !foreground
	}
	if flags.Changed("call-timeout") {
		cfg.CallTimeout = callTimeout
	}

	dispatcher, err := cfg.Dispatcher()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", dispatcher.GetBackendName()).Bool("background", cfg.Background).Dur("callTimeout", cfg.CallTimeout).Msg("Configured host")

	return []workbook.Option{
		workbook.WithDispatcher(dispatcher),
		workbook.WithBackground(cfg.Background),
		workbook.WithOverwrite(overwrite),
	}, nil
}

func absolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return abs, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	opts, err := handleOptions(cmd)
	if err != nil {
		return err
	}
	// tool arguments override background and overwrite per call
	registry := session.New(opts...)
	log.Info().Str("version", version).Msg("Starting excel-handle MCP server")
	if err := server.New(version, registry).Start(); err != nil {
		log.Error().Err(err).Msg("MCP server stopped")
		return err
	}
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	opts, err := handleOptions(cmd)
	if err != nil {
		return err
	}
	path, err := absolutePath(args[0])
	if err != nil {
		return err
	}
	return workbook.With(path, func(h *workbook.Handle) error {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", h.Path(), h.GetBackendName())
		for i, name := range h.WorksheetNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, name)
		}
		return nil
	}, opts...)
}

func runSheet(cmd *cobra.Command, args []string) error {
	opts, err := handleOptions(cmd)
	if err != nil {
		return err
	}
	path, err := absolutePath(args[0])
	if err != nil {
		return err
	}
	h, err := workbook.Open(path, opts...)
	if err != nil {
		return err
	}
	sheet, err := h.Worksheet(args[1])
	if err != nil {
		h.Release()
		return err
	}
	name, nameErr := sheet.Name()
	index, indexErr := sheet.Index()
	sheet.Release()
	if nameErr == nil && indexErr == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", index, name)
	}
	return h.Close(true)
}

func runSaveAs(cmd *cobra.Command, args []string) error {
	opts, err := handleOptions(cmd)
	if err != nil {
		return err
	}
	path, err := absolutePath(args[0])
	if err != nil {
		return err
	}
	target, err := absolutePath(args[1])
	if err != nil {
		return err
	}
	return workbook.With(path, func(h *workbook.Handle) error {
		if err := h.SaveAs(target); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", target)
		return nil
	}, opts...)
}

func runConstants(cmd *cobra.Command, args []string) error {
	table := session.New().Constants()
	if len(args) == 1 {
		value, ok := table.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown constant: %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", args[0], value)
		return nil
	}
	for _, name := range table.Names() {
		value, _ := table.Lookup(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, value)
	}
	return nil
}
