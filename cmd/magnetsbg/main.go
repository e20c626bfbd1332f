package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "magnetsbg",
	Short: "magnetsbg — souvenir magnet storefront",
	Long:  "A small Bulgarian storefront: catalogue, checkout with cash on delivery, email receipts and a back office.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
}
