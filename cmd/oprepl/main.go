package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/opgen/engine"
	"github.com/npillmayer/opgen/op"
	"github.com/npillmayer/opgen/op/parser"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

var (
	flagTrace    = pflag.StringP("trace", "t", "Error", "Trace level [Debug|Info|Error]")
	flagInit     = pflag.StringP("init", "i", "", "Command script to run before going interactive")
	flagConfig   = pflag.StringP("config", "c", "", "Configuration file (TOML)")
	flagFallback = pflag.Bool("fallback", false, "Compare precedence functions for undeclared pairs of terminals")
	flagLang     = pflag.StringP("lang", "l", "", "Language for messages [en|es]")
)

// tracing keys of all packages of this module
var traceKeys = []string{"opgen.op", "opgen.scanner", "opgen.parser", "opgen.engine", "opgen.repl"}

// main() starts an interactive CLI, where users may enter rules and precedence
// relations for an operator grammar, build a parser and parse input strings.
// Every parse step is shown, which makes the CLI a sandbox for studying
// operator-precedence parsing.
//
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	pflag.Parse()
	conf, err := loadConfig(*flagConfig)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	overrideConfig(&conf)
	setTraceLevel(conf.Trace)
	tracer().Infof("Trace level is %s", conf.Trace)
	//
	repl, err := readline.New(conf.Prompt)
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := NewIntp(conf)
	intp.repl = repl
	pterm.Info.Println(intp.msg.text(msgWelcome)) // colored welcome message
	pterm.Info.Println(intp.msg.text(msgHelpHint))
	if *flagInit != "" {
		if err := intp.loadInitFile(*flagInit); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	intp.REPL()
}

// overrideConfig lets flags given on the command line take precedence over the
// configuration file.
func overrideConfig(conf *Config) {
	if pflag.Lookup("trace").Changed {
		conf.Trace = *flagTrace
	}
	if pflag.Lookup("fallback").Changed {
		conf.FunctionFallback = *flagFallback
	}
	if pflag.Lookup("lang").Changed {
		conf.Lang = *flagLang
	}
}

func setTraceLevel(l string) {
	level := tracing.TraceLevelFromString(l)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// Intp is our interpreter object
type Intp struct {
	engine *engine.Engine
	conf   Config
	msg    messages
	repl   *readline.Instance
}

// NewIntp creates an interpreter with an empty grammar.
func NewIntp(conf Config) *Intp {
	return &Intp{
		engine: engine.New(engine.WithParserOptions(
			parser.FunctionFallback(conf.FunctionFallback),
			parser.RecordSteps(conf.ShowSteps),
		)),
		conf: conf,
		msg:  messages{lang: selectLanguage(conf.Lang), width: conf.Width},
	}
}

func (intp *Intp) loadInitFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("unable to open init file: %w", err)
	}
	defer f.Close()
	_, err = intp.run(f)
	return err
}

// run evaluates commands read from r, one per line. It stops at an EXIT
// command, reporting true.
func (intp *Intp) run(r io.Reader) (bool, error) {
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			tracer().Errorf("error line %d: %v", lineno, err)
		}
		if quit {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("error while reading commands: %w", err)
	}
	return false, nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, _ := intp.Eval(line)
		if quit {
			break
		}
	}
	pterm.Println(intp.msg.text(msgBye))
}

// Eval executes a single command line. It returns true if the user wants to
// quit. Errors are displayed to the user and returned.
func (intp *Intp) Eval(line string) (bool, error) {
	cmd, err := engine.ParseCommand(line)
	if err != nil {
		return false, intp.fail(err)
	}
	tracer().Debugf("command %s %v", cmd.Verb, cmd.Args)
	e := intp.engine
	switch cmd.Verb {
	case "":
		return false, nil
	case "RULE":
		if err := e.AddRule(cmd.Args[0], cmd.Production()); err != nil {
			return false, intp.fail(err)
		}
		pterm.Info.Println(intp.msg.text(msgRuleAdded, cmd.Args[0]+" → "+cmd.Production()))
	case "INIT":
		if err := e.SetInitial(cmd.Args[0]); err != nil {
			return false, intp.fail(err)
		}
		pterm.Info.Println(intp.msg.text(msgInitSet, cmd.Args[0]))
	case "PREC":
		if err := e.SetPrecedence(cmd.Args[0], cmd.Args[1], cmd.Args[2]); err != nil {
			return false, intp.fail(err)
		}
		pterm.Info.Println(intp.msg.text(msgPrecSet, cmd.Args[0], cmd.Args[1], cmd.Args[2]))
	case "BUILD":
		g, err := e.Build()
		if err != nil {
			return false, intp.fail(err)
		}
		g.Dump() // only visible in debug mode
		pterm.Info.Println(intp.msg.text(msgBuilt, g.Name))
		pterm.Println(g.FunctionsString())
		pterm.Println(intp.msg.text(msgFingerprint, g.Fingerprint()))
	case "PARSE":
		result, err := e.Parse(cmd.Rest)
		if result != nil {
			renderSteps(result.Steps, intp.msg)
		}
		if err != nil {
			if result != nil && len(result.Derivation) > 0 {
				renderDerivation(result, intp.msg)
			}
			return false, intp.fail(err)
		}
		pterm.Info.Println(intp.msg.text(msgAccepted))
		renderDerivation(result, intp.msg)
		renderTree(result.Tree)
	case "TABLE":
		if !e.Built() {
			return false, intp.fail(op.NewError(op.NotBuilt, "no precedence table"))
		}
		pterm.Println(e.Grammar().TableString())
	case "GRAPH":
		if err := intp.writeGraph(cmd.Args[0]); err != nil {
			return false, intp.fail(err)
		}
		pterm.Info.Println(intp.msg.text(msgGraphWritten, cmd.Args[0]))
	case "RESET":
		e.Reset()
		pterm.Info.Println(intp.msg.text(msgReset))
	case "HELP":
		pterm.Println(intp.msg.help())
	case "EXIT":
		return true, nil
	}
	return false, nil
}

func (intp *Intp) writeGraph(filename string) error {
	if !intp.engine.Built() {
		return op.NewError(op.NotBuilt, "no precedence graph")
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := intp.engine.Grammar().GraphViz(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (intp *Intp) fail(err error) error {
	pterm.Error.Println(intp.msg.errorText(err))
	return err
}
