package main

import (
	"os"

	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/server"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

var rootCmd = &cobra.Command{
	Use:   "ordinscribe",
	Short: "ordinscribe builds commit addresses and signed reveal transactions for ordinal inscriptions.",
}

func init() {
	rootCmd.AddCommand(server.Cmd)
	rootCmd.AddCommand(inscription.CommitCmd)
	rootCmd.AddCommand(inscription.RevealCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
