package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Evidence & Audit Trust Layer CLI",
	Long:  "A command-line tool for capturing compliance evidence and auditing the tamper-evident chain.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
