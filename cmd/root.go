package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sbp-checkout",
	Short: "SBP checkout demo service",
	Long:  "A payment backend relaying create and status calls to YooKassa, with webhook reconciliation and a terminal checkout client.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
