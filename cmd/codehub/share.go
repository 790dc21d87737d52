package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/codehub/share"
)

var shareCmd = &cobra.Command{
	Use:   "share [file]",
	Short: "Print a share link for code",
	Long: `Encode code and its language into a playground link.

Code is read from a file argument, --code or stdin. Opening the link in the
playground, or passing it to 'codehub open', loads the code back.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runShare,
}

func init() {
	shareCmd.Flags().StringP("code", "c", "", "Code to share")
	shareCmd.Flags().String("output", "", "Run output to carry in the link")
	shareCmd.Flags().String("base-url", "http://localhost:8080", "Playground address")
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("lang")
	output, _ := cmd.Flags().GetString("output")
	baseURL, _ := cmd.Flags().GetString("base-url")

	source, filename, ok, err := readSource(cmd, args)
	if err != nil {
		fail(cmd, err)
		return
	}
	if !ok {
		cmd.Help()
		return
	}

	language, err := getLanguage(lang, filename)
	if err != nil {
		fail(cmd, err)
		return
	}

	link, err := share.Encode(baseURL, share.CodeData{
		Code:     source,
		Language: language.Name(),
		Output:   output,
	})
	if err != nil {
		fail(cmd, err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), link)
}
