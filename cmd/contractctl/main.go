// Command contractctl renders contract and message templates offline, with
// the same alias table the BFA serves.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "contractctl",
		Short:         "Render rastreio contract templates from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("aliases", "", "YAML file with extra template aliases")

	rootCmd.AddCommand(tokensCmd())
	rootCmd.AddCommand(renderCmd())

	return rootCmd
}
