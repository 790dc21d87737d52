package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/codehub/language"
)

var samplesCmd = &cobra.Command{
	Use:   "samples [language]",
	Short: "List languages or print a starter sample",
	Args:  cobra.MaximumNArgs(1),
	Run:   runSamples,
}

func init() {
	rootCmd.AddCommand(samplesCmd)
}

func runSamples(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, l := range language.All() {
			fmt.Fprintf(out, "%-12s %-12s code.%s\n", l.Name(), l.DisplayName(), l.Extension())
		}
		return
	}

	lang, err := language.Parse(args[0])
	if err != nil {
		fail(cmd, err)
		return
	}
	fmt.Fprintln(out, lang.Sample())
}
