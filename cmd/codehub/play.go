package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/caffeineduck/codehub/download"
	"github.com/caffeineduck/codehub/editor"
	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/language"
	"github.com/caffeineduck/codehub/notice"
	"github.com/caffeineduck/codehub/share"
)

var playCmd = &cobra.Command{
	Use:   "play [file]",
	Short: "Interactive terminal playground",
	Long: `Start an interactive playground in the terminal.

Lines are appended to the code buffer. Commands start with a colon:
  :lang <name>      switch language (keeps edited code)
  :sample           load the sample for the current language
  :show             print the buffer with line numbers
  :clear            empty the buffer
  :run              run the buffer, answering input prompts inline
  :share            print a share link for the buffer
  :open <link>      load code from a share link
  :download [dir]   save the buffer as code.<ext>
  :help             list commands
  :quit             leave the playground

Features:
  - Command history (up/down arrows)
  - History search (Ctrl+R)`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().String("history", "", "History file path (default: ~/.codehub_history)")
	playCmd.Flags().String("base-url", "http://localhost:8080", "Playground address used for share links")
	playCmd.Flags().Duration("latency", executor.DefaultLatency, "Simulated compile delay")
	playCmd.Flags().Duration("timeout", 5*time.Minute, "Run timeout, including time spent waiting for input")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("lang")
	historyFile, _ := cmd.Flags().GetString("history")
	baseURL, _ := cmd.Flags().GetString("base-url")
	latency, _ := cmd.Flags().GetDuration("latency")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".codehub_history")
	}

	var filename, code string
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fail(cmd, err)
			return
		}
		filename, code = args[0], string(data)
	}

	language, err := getLanguage(lang, filename)
	if err != nil {
		fail(cmd, err)
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fail(cmd, fmt.Errorf("initializing readline: %w", err))
		return
	}
	defer rl.Close()

	lr := newLineReader(rl, "> ")
	defer lr.close()

	p := newPlayground(executor.New(executor.WithLatency(latency)), language, cmd.OutOrStdout())
	p.baseURL = baseURL
	p.ask = lr.Ask
	p.timeout = timeout
	if code != "" {
		p.buf.Set(code)
	}

	titleColor.Fprintf(cmd.ErrOrStderr(), "codehub %s playground", language.DisplayName())
	fmt.Fprintln(cmd.ErrOrStderr(), " (type :help for commands, Ctrl+D to exit)")

	for {
		line, err := lr.read(context.Background())
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(cmd.OutOrStdout())
				break
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading input: %v\n", err)
			break
		}

		if p.handle(context.Background(), line) {
			break
		}
	}
}

// playground holds the terminal editor state between commands.
type playground struct {
	exec    *executor.Executor
	lang    executor.Language
	buf     *editor.Buffer
	out     io.Writer
	ask     executor.InputFunc
	baseURL string
	timeout time.Duration
}

func newPlayground(exec *executor.Executor, lang executor.Language, out io.Writer) *playground {
	p := &playground{
		exec:    exec,
		lang:    lang,
		buf:     &editor.Buffer{},
		out:     out,
		baseURL: "http://localhost:8080",
		timeout: 5 * time.Minute,
	}
	p.buf.Set(lang.Sample())
	return p
}

// handle applies one line of input and reports whether the playground
// should exit.
func (p *playground) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		p.buf.Append(line)
		return false
	}

	name, arg, _ := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, ":")), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "q", "exit":
		return true
	case "help", "h":
		fmt.Fprint(p.out, playHelp)
	case "lang", "l":
		p.switchLanguage(arg)
	case "sample":
		p.buf.Set(p.lang.Sample())
		fmt.Fprint(p.out, p.buf.Numbered())
	case "show", "s":
		fmt.Fprintf(p.out, "[%s]\n", p.lang.DisplayName())
		fmt.Fprint(p.out, p.buf.Numbered())
	case "clear":
		p.buf.Clear()
	case "run", "r":
		p.run(ctx)
	case "share":
		p.share()
	case "open":
		p.open(arg)
	case "download", "d":
		p.download(arg)
	default:
		p.notify(notice.Error(fmt.Sprintf("unknown command :%s (try :help)", name)))
	}
	return false
}

const playHelp = `:lang <name>      switch language
:sample           load the sample
:show             print the buffer
:clear            empty the buffer
:run              run the buffer
:share            print a share link
:open <link>      load a share link
:download [dir]   save the buffer
:quit             leave
`

func (p *playground) switchLanguage(tag string) {
	if tag == "" {
		fmt.Fprintf(p.out, "%s (one of %s)\n", p.lang.Name(), strings.Join(language.Tags(), ", "))
		return
	}
	to, err := language.Parse(tag)
	if err != nil {
		p.notify(notice.Error(err.Error()))
		return
	}
	code, replaced := language.Switch(p.buf.Text(), to)
	p.lang = to
	if replaced {
		p.buf.Set(code)
		fmt.Fprint(p.out, p.buf.Numbered())
		return
	}
	infoColor.Fprintf(p.out, "Language set to %s; buffer kept\n", to.DisplayName())
}

func (p *playground) run(ctx context.Context) {
	if p.buf.Empty() {
		p.notify(notice.EmptyRun())
		return
	}

	var opts []executor.Option
	opts = append(opts, executor.WithTimeout(p.timeout))
	if p.ask != nil {
		opts = append(opts, executor.WithInput(p.ask))
	}

	infoColor.Fprintln(p.out, "Running...")
	result := p.exec.Run(ctx, p.lang, p.buf.Text(), opts...)
	printResult(p.out, result)
	if result.Error != nil {
		fmt.Fprintf(p.out, "%s %v\n", errorColor.Sprint("Error:"), result.Error)
	}
}

func (p *playground) share() {
	link, err := share.Encode(p.baseURL, share.CodeData{Code: p.buf.Text(), Language: p.lang.Name()})
	if err != nil {
		p.notify(notice.Error(err.Error()))
		return
	}
	fmt.Fprintln(p.out, link)
}

func (p *playground) open(link string) {
	data, err := share.Decode(link)
	if err != nil {
		p.notify(notice.Error(err.Error()))
		return
	}
	lang, ok := language.Lookup(data.Language)
	if !ok {
		p.notify(notice.Error(share.ErrUnknownLanguage.Error()))
		return
	}
	p.lang = lang
	p.buf.Set(data.Code)
	p.notify(notice.CodeLoaded())
}

func (p *playground) download(dir string) {
	path, err := download.SaveFile(dir, p.buf.Text(), p.lang.Name())
	if err != nil {
		if errors.Is(err, executor.ErrEmptyCode) {
			p.notify(notice.EmptyDownload())
			return
		}
		p.notify(notice.Error(err.Error()))
		return
	}
	p.notify(notice.Downloaded(p.lang.Name()))
	infoColor.Fprintln(p.out, path)
}

func (p *playground) notify(n notice.Notice) {
	if n.IsDestructive() {
		errorColor.Fprintln(p.out, n.String())
		return
	}
	titleColor.Fprintln(p.out, n.String())
}
