package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/codehub/executor"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run code with simulated output",
	Long: `Run code through the simulated interpreter.

Code can be provided via:
  - File argument: codehub run hello.py
  - Inline flag: codehub run -l cpp -c 'cout << "hi";'
  - Stdin: echo 'print("hi")' | codehub run

When the code reads input, each prompt is answered on the terminal unless
values are given with --input.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Code to run")
	cmd.Flags().StringArrayP("input", "i", nil, "Answer the next input prompt with this value (repeatable)")
	cmd.Flags().Bool("no-input", false, "Disable input handling")
	cmd.Flags().Duration("timeout", 30*time.Second, "Run timeout, including time spent waiting for input")
	cmd.Flags().Duration("latency", executor.DefaultLatency, "Simulated compile delay")
}

func runRun(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("lang")
	inputs, _ := cmd.Flags().GetStringArray("input")
	noInput, _ := cmd.Flags().GetBool("no-input")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	latency, _ := cmd.Flags().GetDuration("latency")

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []executor.Option{executor.WithTimeout(timeout)}
	switch {
	case len(inputs) > 0:
		opts = append(opts, executor.WithInputs(inputs...))
	case !noInput:
		prompter := &terminalPrompter{out: cmd.ErrOrStderr()}
		defer prompter.Close()
		opts = append(opts, executor.WithInput(prompter.Ask))
	}

	exec := executor.New(executor.WithLatency(latency))

	infoColor.Fprintln(cmd.ErrOrStderr(), "Running...")
	result := exec.Run(ctx, language, source, opts...)
	printResult(cmd.OutOrStdout(), result)

	if result.Error != nil {
		fail(cmd, result.Error)
	}
}

func printResult(w io.Writer, result executor.Result) {
	if result.Output == "" {
		return
	}
	fmt.Fprint(w, result.Output)
	if !strings.HasSuffix(result.Output, "\n") {
		fmt.Fprintln(w)
	}
}
