// Package main provides the talentalb command line client for the TalentALB job board.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "talentalb",
	Short:         "TalentALB job board client",
	Long:          "talentalb browses published job posts, keeps a local ledger of applications and manages candidate and company accounts on a TalentALB backend.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
