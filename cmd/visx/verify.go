package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrhapile/visx/pkg/visx"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <archive>",
	Short: "Verify archive contents against the embedded manifest checksums",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		problems, err := visx.Verify(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Println(ErrorStyle.Render("✗ ") + p)
			}
			return fmt.Errorf("%d integrity problem(s) found", len(problems))
		}
		fmt.Println(SuccessStyle.Render("✓ archive verified"))
		return nil
	},
}
