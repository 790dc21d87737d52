package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/language"
)

var rootCmd = &cobra.Command{
	Use:   "codehub [file]",
	Short: "Code playground for Python, C++, Java, JavaScript and HTML",
	Long: `codehub - a code playground with simulated runs, share links and downloads.

Runs are simulated: nothing is compiled or executed. Output is derived from
print and input calls found in the code. Languages: python, cpp, java,
javascript, html.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun, // Default to run command behavior
}

// exit is swapped out by tests.
var exit = os.Exit

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	infoColor   = color.New(color.Faint)
	promptColor = color.New(color.FgCyan)
	titleColor  = color.New(color.FgGreen, color.Bold)
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("lang", "l", "", "Language: python, cpp, java, javascript, html (default: from file extension, else python)")

	addRunFlags(rootCmd)
}

// fail reports err the way every command does and exits.
func fail(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", errorColor.Sprint("Error:"), err)
	exit(1)
}

// getLanguage resolves the --lang flag, falling back to the file extension
// and then to the default language.
func getLanguage(langFlag string, filename string) (executor.Language, error) {
	if langFlag != "" {
		return language.Parse(langFlag)
	}
	if filename != "" {
		if lang, ok := language.FromFilename(filename); ok {
			return lang, nil
		}
	}
	return language.Default(), nil
}

// readSource returns code from the --code flag, a file argument or piped
// stdin, along with the file name when there is one. ok is false when there
// is nothing to read.
func readSource(cmd *cobra.Command, args []string) (source, filename string, ok bool, err error) {
	code, _ := cmd.Flags().GetString("code")

	switch {
	case code != "":
		return code, "", true, nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", false, err
		}
		return string(data), args[0], true, nil
	}

	in := cmd.InOrStdin()
	if f, isFile := in.(*os.File); isFile {
		// No piped input
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", "", false, nil
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", "", false, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", "", false, nil
	}
	return string(data), "", true, nil
}
