package cmd

import (
	"fmt"
	"os"

	"evidence-cli/api"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query service status and health",
	Example: `  evidence status
  evidence status --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		status, err := api.GetStatus()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if output == "json" {
			fmt.Println(status.ToJSON())
		} else {
			fmt.Printf("Service: %s\nStatus: %s\nChain length: %d\nEvidence records: %d\n",
				status.Service, status.Status, status.Metrics.ChainLength, status.Metrics.EvidenceCount)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringP("output", "o", "plain", "Output format: plain|json")
}
