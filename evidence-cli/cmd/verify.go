package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"evidence-cli/api"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify audit chain integrity",
	Example: `  evidence verify
  evidence verify --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		report, err := api.VerifyChain()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if output == "json" {
			b, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(b))
		} else {
			verdict := "VALID"
			if !report.Valid {
				verdict = "INVALID"
			}
			fmt.Printf("Chain: %s (%d nodes)\n", verdict, report.TotalNodes)
			for _, e := range report.Errors {
				fmt.Printf("  - %s: %s\n", e.Node, e.Issue)
			}
		}
		if !report.Valid {
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringP("output", "o", "plain", "Output format: plain|json")
}
