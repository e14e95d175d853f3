package cmd

import (
	"fmt"
	"os"

	"evidence-cli/api"

	"github.com/spf13/cobra"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Download an audit bundle for a tenant and date range",
	Example: `  evidence bundle --tenant acme --start 2026-01-01T00:00:00Z --end 2026-02-01T00:00:00Z -o bundle.zip`,
	Run: func(cmd *cobra.Command, args []string) {
		tenant, _ := cmd.Flags().GetString("tenant")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		out, _ := cmd.Flags().GetString("out")
		if tenant == "" || start == "" || end == "" {
			fmt.Println("Error: --tenant, --start and --end are required")
			os.Exit(1)
		}
		if err := api.DownloadBundle(tenant, start, end, out); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Bundle written to %s\n", out)
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.Flags().String("tenant", "", "Tenant identifier")
	bundleCmd.Flags().String("start", "", "Range start (RFC 3339)")
	bundleCmd.Flags().String("end", "", "Range end (RFC 3339)")
	bundleCmd.Flags().StringP("out", "o", "audit_bundle.zip", "Output file")
}
