package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Command is a command line, split into a verb and its arguments.
type Command struct {
	// Verb is the canonical name of the command, such as "RULE" or "PARSE".
	// Aliases are mapped to their canonical verb, e.g. "SALIR" to "EXIT".
	Verb string

	// Args are the whitespace-separated arguments following the verb.
	Args []string

	// Rest is the text following the verb, unchanged. Productions and parser
	// input are taken from Rest.
	Rest string
}

// Verbs and the minimum and maximum number of arguments they take.
// A maximum of -1 means unbounded.
var verbArgs = map[string][2]int{
	"RULE":  {1, -1},
	"INIT":  {1, 1},
	"PREC":  {3, 3},
	"BUILD": {0, 0},
	"PARSE": {0, -1},
	"TABLE": {0, 0},
	"GRAPH": {1, 1},
	"RESET": {0, 0},
	"HELP":  {0, 0},
	"EXIT":  {0, 0},
}

// VerbAliases maps alternative verbs to their canonical forms.
var VerbAliases = map[string]string{
	"REGLA":   "RULE",
	"INICIAL": "INIT",
	"QUIT":    "EXIT",
	"SALIR":   "EXIT",
	"BYE":     "EXIT",
	"?":       "HELP",
	"AYUDA":   "HELP",
}

// Errors for malformed commands.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgCount       = errors.New("wrong number of arguments")
	ErrRelation       = errors.New("unknown precedence relation")
)

// ParseCommand parses a command line. Verbs are case-insensitive. Empty input
// results in a zero Command and no error.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{}, nil
	}
	verb, rest := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		verb, rest = line[:i], strings.TrimSpace(line[i+1:])
	}
	verb = strings.ToUpper(verb)
	if canonical, ok := VerbAliases[verb]; ok {
		verb = canonical
	}
	cnt, ok := verbArgs[verb]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, verb)
	}
	cmd := Command{Verb: verb, Args: strings.Fields(rest), Rest: rest}
	if n := len(cmd.Args); n < cnt[0] || cnt[1] >= 0 && n > cnt[1] {
		return cmd, fmt.Errorf("%w: %s takes %s", ErrArgCount, verb, argCount(cnt))
	}
	return cmd, nil
}

func argCount(cnt [2]int) string {
	switch {
	case cnt[1] < 0:
		return fmt.Sprintf("at least %d argument(s)", cnt[0])
	case cnt[1] == 0:
		return "no arguments"
	case cnt[0] == cnt[1]:
		return fmt.Sprintf("%d argument(s)", cnt[0])
	}
	return fmt.Sprintf("%d to %d arguments", cnt[0], cnt[1])
}

// Production returns the production of a RULE command, i.e. everything after
// the left hand side.
func (cmd Command) Production() string {
	if cmd.Verb != "RULE" || len(cmd.Args) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(cmd.Rest, cmd.Args[0]))
}
