package main

import "github.com/spf13/cobra"

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Text repair passes",
	Long:  "Repairs imported text: apostrophe variants in names, localized country names.",
}

func init() { rootCmd.AddCommand(cleanCmd) }
