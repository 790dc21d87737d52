package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/codehub/download"
	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/notice"
)

var downloadCmd = &cobra.Command{
	Use:   "download [file]",
	Short: "Save code as code.<ext>",
	Long: `Save code under the playground's download name for its language
(code.py, code.cpp, code.java, code.js or code.html).`,
	Args: cobra.MaximumNArgs(1),
	Run:  runDownload,
}

func init() {
	downloadCmd.Flags().StringP("code", "c", "", "Code to save")
	downloadCmd.Flags().StringP("out-dir", "o", ".", "Directory to write to")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("lang")
	outDir, _ := cmd.Flags().GetString("out-dir")

	source, filename, _, err := readSource(cmd, args)
	if err != nil {
		fail(cmd, err)
		return
	}

	language, err := getLanguage(lang, filename)
	if err != nil {
		fail(cmd, err)
		return
	}

	path, err := download.SaveFile(outDir, source, language.Name())
	if errors.Is(err, executor.ErrEmptyCode) {
		fail(cmd, errors.New(notice.EmptyDownload().Description))
		return
	}
	if err != nil {
		fail(cmd, err)
		return
	}
	infoColor.Fprintln(cmd.ErrOrStderr(), notice.Downloaded(language.Name()).Description)
	fmt.Fprintln(cmd.OutOrStdout(), path)
}
