package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set via -ldflags at release time.
	Version = "dev"

	// verbose enables debug-level logging
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "visx",
		Short: "Build and inspect VISX package archives",
		Long: TitleStyle.Render("visx") + SubtitleStyle.Render(" - VISX package tooling") + `

VISX bundles a directory tree into a single compressed archive for mobile
distribution. Every archive starts with a manifest.json recording package
identity, per-file SHA-256 checksums, and size statistics.

` + SubtitleStyle.Render("Examples:") + `
  visx create ./my-wasm-module ./out/module.visx --type wasm
  visx create ./my-node-package ./out/pkg.visx
  visx inspect ./out/pkg.visx
  visx verify ./out/pkg.visx`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
}

// newLogger builds the CLI logger honoring --verbose.
func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
