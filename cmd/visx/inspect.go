package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrhapile/visx/pkg/visx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive>",
	Short: "Print the manifest embedded in a VISX archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := visx.ReadManifest(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	},
}
