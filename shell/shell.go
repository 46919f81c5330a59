package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/yahtzee-ev/cache"
	"github.com/domino14/yahtzee-ev/config"
	"github.com/domino14/yahtzee-ev/evtable"
	"github.com/domino14/yahtzee-ev/export"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoTable           = errors.New("please load a state table first with the `load` command")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// extractFields splits a line into a command, positional arguments, and
// `-key value` options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	tables    *cache.Cache[*evtable.Table]
	table     *evtable.Table
	tablePath string

	printer *message.Printer
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func loadTable(cfg *config.Config, path string) (*evtable.Table, error) {
	return export.Load(context.Background(), path)
}

func newController(cfg *config.Config) *ShellController {
	return &ShellController{
		config:  cfg,
		tables:  cache.New(cfg, loadTable),
		printer: message.NewPrinter(language.English),
	}
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31myahtzee>\033[0m ",
		HistoryFile:     "/tmp/yahtzee-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg)
	sc.l = l
	return sc
}

func (sc *ShellController) stdout() io.Writer {
	if sc.l == nil {
		return os.Stdout
	}
	return sc.l.Stdout()
}

func (sc *ShellController) stderr() io.Writer {
	if sc.l == nil {
		return os.Stderr
	}
	return sc.l.Stderr()
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.stdout())
}

func (sc *ShellController) showError(err error) {
	writeln("Error: "+err.Error(), sc.stderr())
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "load":
		return sc.load(cmd)
	case "reload":
		return sc.reload(cmd)
	case "ev":
		return sc.ev(cmd)
	case "round":
		return sc.round(cmd)
	case "score":
		return sc.score(cmd)
	case "sample":
		return sc.sample(cmd)
	case "help":
		return sc.help(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// LoadTable loads the table at path, the same as the `load` command.
func (sc *ShellController) LoadTable(path string) error {
	resp, err := sc.load(&shellcmd{cmd: "load", args: []string{path}})
	if err != nil {
		return err
	}
	sc.showMessage(resp.message)
	return nil
}

// Execute runs a single command line, as if typed at the prompt.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.handle(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
}

// Cleanup releases the terminal. Loop does this itself on exit.
func (sc *ShellController) Cleanup() {
	if sc.l != nil {
		sc.l.Close()
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if line == "exit" {
			sig <- syscall.SIGINT
			break
		} else if line == "" {
			continue
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}
