package main

import "github.com/spf13/cobra"

var coordsCmd = &cobra.Command{
	Use:   "coords",
	Short: "Coordinate quality checks",
	Long:  "Flags zoo coordinates that are missing, out of range, or statistical outliers within their country.",
}

func init() { rootCmd.AddCommand(coordsCmd) }
