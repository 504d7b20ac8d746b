package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "p2p-payments",
	Short: "Peer-to-peer payments microservice",
	Long:  "A microservice managing peer-to-peer payment records: creation, lookup, status updates, and deletion.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
