package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/codehub/download"
	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/share"
)

var openCmd = &cobra.Command{
	Use:   "open <link>",
	Short: "Decode a share link",
	Long: `Decode a playground share link and print its code.

With --out-dir the code is written to <dir>/code.<ext> instead.`,
	Args: cobra.ExactArgs(1),
	Run:  runOpen,
}

func init() {
	openCmd.Flags().StringP("out-dir", "o", "", "Write the code to this directory instead of printing it")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) {
	outDir, _ := cmd.Flags().GetString("out-dir")

	data, err := share.Decode(args[0])
	if err != nil {
		fail(cmd, err)
		return
	}

	if outDir != "" {
		path, err := download.SaveFile(outDir, data.Code, data.Language)
		if err != nil {
			fail(cmd, err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return
	}

	infoColor.Fprintf(cmd.ErrOrStderr(), "[%s]\n", data.Language)
	printResult(cmd.OutOrStdout(), executor.Result{Output: data.Code})
	if data.Output != "" {
		infoColor.Fprintln(cmd.ErrOrStderr(), "--- output ---")
		printResult(cmd.ErrOrStderr(), executor.Result{Output: data.Output})
	}
}
