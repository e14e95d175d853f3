package cmd

import (
	"fmt"
	"os"

	"evidence-cli/api"

	"github.com/spf13/cobra"
)

var trailCmd = &cobra.Command{
	Use:   "trail",
	Short: "Fetch the audit trail (hash chain)",
	Example: `  evidence trail
  evidence trail --start 2026-01-01T00:00:00Z --end 2026-02-01T00:00:00Z`,
	Run: func(cmd *cobra.Command, args []string) {
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		trail, err := api.GetTrail(start, end)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Nodes: %d\n", trail.Count)
		for _, node := range trail.Chain {
			fmt.Println(string(node))
		}
	},
}

func init() {
	rootCmd.AddCommand(trailCmd)
	trailCmd.Flags().String("start", "", "Range start (RFC 3339)")
	trailCmd.Flags().String("end", "", "Range end (RFC 3339)")
}
