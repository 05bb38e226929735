package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-enhance/internal/config"
	"github.com/ironsheep/image-enhance/internal/enhance"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the available operations",
	Args:  cobra.NoArgs,
	RunE:  runOps,
}

func init() {
	opsCmd.Flags().Bool("defaults", false, "Print the effective configuration as TOML")
	rootCmd.AddCommand(opsCmd)
}

func runOps(cmd *cobra.Command, _ []string) error {
	if printDefaults, _ := cmd.Flags().GetBool("defaults"); printDefaults {
		return config.Encode(cmd.OutOrStdout())
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, info := range enhance.Infos() {
		fmt.Fprintf(w, "%s\t%s\n", info.Op, info.Description)
	}
	return w.Flush()
}
