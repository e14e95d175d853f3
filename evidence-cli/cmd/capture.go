package cmd

import (
	"fmt"
	"os"

	"evidence-cli/api"

	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture [payload.json]",
	Short: "Capture a new evidence record from a JSON payload file",
	Args:  cobra.ExactArgs(1),
	Example: `  evidence capture violation.json`,
	Run: func(cmd *cobra.Command, args []string) {
		payload, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		resp, err := api.CaptureEvidence(payload)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Captured: %s\n", resp.EvidenceID)
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
}
