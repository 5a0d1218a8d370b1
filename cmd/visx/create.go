package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrhapile/visx/pkg/types"
	"github.com/mrhapile/visx/pkg/visx"
)

var (
	createType        string
	createName        string
	createVersion     string
	createDescription string
	createExcludes    []string

	createCmd = &cobra.Command{
		Use:   "create <source> <output>",
		Short: "Create a VISX package from a source directory",
		Long: `Create a .visx archive from a source directory.

The archive contains a manifest.json followed by every file in the tree,
minus hidden files and the default exclusions (VCS metadata, caches,
compiled bytecode, OS cruft, previous .visx outputs). The .visx extension
is appended to the output path if missing.

Examples:
  visx create ./wasm-module ./output/module.visx --type wasm
  visx create ./node-package ./output/pkg.visx
  visx create ./src ./out.visx --name MyPackage --version 2.1.0`,
		Args: cobra.ExactArgs(2),
		RunE: runCreate,
	}
)

func init() {
	createCmd.Flags().StringVar(&createType, "type", string(types.TypeAuto), "package type: auto, wasm, node, javascript, generic")
	createCmd.Flags().StringVar(&createName, "name", "", "override package name")
	createCmd.Flags().StringVar(&createVersion, "version", "", "override package version")
	createCmd.Flags().StringVar(&createDescription, "description", "", "package description")
	createCmd.Flags().StringSliceVar(&createExcludes, "exclude", nil, "additional exclusion glob patterns")
}

func validPackageType(s string) bool {
	switch types.PackageType(s) {
	case types.TypeAuto, types.TypeWASM, types.TypeNode, types.TypeJavaScript, types.TypeGeneric:
		return true
	}
	return false
}

func runCreate(cmd *cobra.Command, args []string) error {
	if !validPackageType(createType) {
		return fmt.Errorf("invalid package type %q", createType)
	}

	source, output := args[0], args[1]
	logger := newLogger()

	fmt.Println(TitleStyle.Render("Creating VISX package"))
	fmt.Println(SubtitleStyle.Render("  source: ") + source)
	fmt.Println(SubtitleStyle.Render("  output: ") + output)

	result, err := visx.Build(cmd.Context(), source, output,
		visx.WithType(types.PackageType(createType)),
		visx.WithName(createName),
		visx.WithVersion(createVersion),
		visx.WithDescription(createDescription),
		visx.WithExcludePatterns(createExcludes...),
		visx.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	m := result.Manifest
	fmt.Println(SuccessStyle.Render("✓ Package created"))
	fmt.Printf("  %s %s@%s (%s)\n", SubtitleStyle.Render("package:"), m.Package.Name, m.Package.Version, m.Package.Type)
	fmt.Printf("  %s %d\n", SubtitleStyle.Render("files:"), m.Stats.TotalFiles)
	fmt.Printf("  %s %s\n", SubtitleStyle.Render("original size:"), humanize.IBytes(uint64(m.Stats.TotalSize)))
	fmt.Printf("  %s %s (%.1f%% reduction)\n", SubtitleStyle.Render("compressed:"),
		humanize.IBytes(uint64(result.CompressedSize)), result.Reduction()*100)
	fmt.Printf("  %s %s\n", SubtitleStyle.Render("output:"), result.ArchivePath)
	return nil
}
