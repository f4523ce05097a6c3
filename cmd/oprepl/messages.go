package main

import (
	"errors"
	"fmt"
	"strings"

	jj "github.com/cloudfoundry/jibber_jabber"
	"github.com/dekarrin/rosed"
	"github.com/npillmayer/opgen/engine"
	"github.com/npillmayer/opgen/op"
	"golang.org/x/text/language"
)

// --- Languages -------------------------------------------------------------

var supportedLanguages = []language.Tag{
	language.English, // The first language is used as fallback.
	language.Spanish,
}

var langMatcher = language.NewMatcher(supportedLanguages)

// selectLanguage matches a language preference against the languages we have
// messages for. An empty preference is replaced by the user's locale.
func selectLanguage(pref string) language.Tag {
	if pref == "" {
		userLocale, err := jj.DetectIETF()
		if err != nil {
			tracer().Infof("cannot detect user locale: %v", err)
			userLocale = "en-US"
		}
		pref = userLocale
	}
	tag, _, _ := langMatcher.Match(language.Make(pref))
	if base, _ := tag.Base(); base.String() == "es" {
		return language.Spanish
	}
	return language.English
}

// --- Message catalog -------------------------------------------------------

type msgKey int

const (
	msgWelcome msgKey = iota
	msgHelpHint
	msgBye
	msgRuleAdded
	msgInitSet
	msgPrecSet
	msgBuilt
	msgFingerprint
	msgAccepted
	msgDerivation
	msgGraphWritten
	msgReset
	msgUnknownCommand
	msgArgCount
	msgWrongRelation
	msgUnknownError
)

var catalog = map[language.Tag]map[msgKey]string{
	language.English: {
		msgWelcome:        "Welcome to the parser generator for operator grammars!",
		msgHelpHint:       "Type 'help' for usage information, quit with <ctrl>D.",
		msgBye:            "Good bye!",
		msgRuleAdded:      "Rule %s added.",
		msgInitSet:        "Initial symbol is %s.",
		msgPrecSet:        "Precedence %s %s %s recorded.",
		msgBuilt:          "Parser for grammar %s built.",
		msgFingerprint:    "Fingerprint %s",
		msgAccepted:       "Input accepted.",
		msgDerivation:     "Derivation:",
		msgGraphWritten:   "Precedence graph written to %s.",
		msgReset:          "Grammar discarded.",
		msgUnknownCommand: "Unknown command. Type 'help' for a list of commands.",
		msgArgCount:       "Wrong number of arguments. Type 'help' for the usage of commands.",
		msgWrongRelation:  "Invalid precedence operator. Type 'help' for the available operators.",
		msgUnknownError:   "An unknown error occurred",
	},
	language.Spanish: {
		msgWelcome:        "¡Bienvenido al generador de analizadores para gramáticas de operadores!",
		msgHelpHint:       "Para ver uso del generador, ingresar 'help'. Salir con <ctrl>D.",
		msgBye:            "¡Adiós!",
		msgRuleAdded:      "Regla %s agregada.",
		msgInitSet:        "El símbolo inicial es %s.",
		msgPrecSet:        "Precedencia %s %s %s registrada.",
		msgBuilt:          "Analizador para la gramática %s construido.",
		msgFingerprint:    "Huella %s",
		msgAccepted:       "Entrada aceptada.",
		msgDerivation:     "Derivación:",
		msgGraphWritten:   "Grafo de precedencia escrito en %s.",
		msgReset:          "Gramática descartada.",
		msgUnknownCommand: "Comando desconocido. Para ver los comandos, ingresar 'help'.",
		msgArgCount:       "Número incorrecto de argumentos. Para ver utilización de los comandos ver 'help'.",
		msgWrongRelation:  "El operador de precedencia ingresado no es válido. Para ver los operadores disponibles, ver 'help'.",
		msgUnknownError:   "Ocurrió algún error desconocido",
	},
}

var errorCatalog = map[language.Tag]map[op.ErrorKind]string{
	language.English: {
		op.InvalidSymbol:         "One of the symbols entered is not valid. See 'help' for the symbols of a grammar.",
		op.InvalidToken:          "Symbols must be single characters, separated by blanks.",
		op.NotAnOperatorGrammar:  "The production entered is not valid for an operator grammar.",
		op.SymbolNotRegistered:   "A symbol does not exist in the grammar. Add a rule involving the symbol first.",
		op.CyclicPrecedenceGraph: "Cyclic precedences between operators detected. The parser cannot be built.",
		op.NotBuilt:              "The parser has not been built yet. Use 'build' first.",
		op.IncomparableSymbols:   "No precedence has been declared between two symbols.",
		op.Rejected:              "Input rejected.",
		op.SymbolNotInGrammar:    "The input contains a symbol which is not a terminal of the grammar.",
		op.GrammarFrozen:         "The parser has already been built. Use 'reset' to start a new grammar.",
	},
	language.Spanish: {
		op.InvalidSymbol:         "Alguno de los símbolos ingresados no es válido. Para consideraciones sobre los símbolos de la gramática ver 'help'.",
		op.InvalidToken:          "Los símbolos deben ser caracteres individuales separados por espacios.",
		op.NotAnOperatorGrammar:  "La producción ingresada no es válida para una gramática de operadores.",
		op.SymbolNotRegistered:   "Alguno de los símbolos ingresados no existe en la gramática. Registre alguna regla que involucre a los símbolos.",
		op.CyclicPrecedenceGraph: "Se detectaron ciclos de precedencia entre los operadores. El analizador no se puede construir.",
		op.NotBuilt:              "El analizador todavía no fue construido. Ingresar 'build' primero.",
		op.IncomparableSymbols:   "No se definió la precedencia entre dos símbolos.",
		op.Rejected:              "Entrada rechazada.",
		op.SymbolNotInGrammar:    "La entrada contiene un símbolo que no es terminal de la gramática.",
		op.GrammarFrozen:         "El analizador ya fue construido. Ingresar 'reset' para empezar una nueva gramática.",
	},
}

// messages renders user-facing texts in one language.
type messages struct {
	lang  language.Tag
	width int
}

func (m messages) text(key msgKey, args ...interface{}) string {
	format, ok := catalog[m.lang][key]
	if !ok {
		format = catalog[language.English][key]
	}
	return fmt.Sprintf(format, args...)
}

// errorText explains an error to the user, followed by the technical
// description.
func (m messages) errorText(err error) string {
	var explanation string
	switch {
	case errors.Is(err, engine.ErrUnknownCommand):
		explanation = m.text(msgUnknownCommand)
	case errors.Is(err, engine.ErrArgCount):
		explanation = m.text(msgArgCount)
	case errors.Is(err, engine.ErrRelation):
		explanation = m.text(msgWrongRelation)
	case op.KindOf(err) != op.NoError:
		explanation = errorCatalog[m.lang][op.KindOf(err)]
	default:
		explanation = m.text(msgUnknownError)
	}
	return rosed.Edit(explanation + " [" + err.Error() + "]").Wrap(m.width).String()
}

// --- Help ------------------------------------------------------------------

type helpEntry struct {
	synopsis string
	text     map[language.Tag]string
}

var helpEntries = []helpEntry{
	{"RULE <non-terminal> <symbol> …", map[language.Tag]string{
		language.English: "Adds the production <non-terminal> → <symbols> to the grammar. Symbols are separated by blanks, and no two non-terminals may be adjacent.",
		language.Spanish: "Agrega a la gramática la producción <no-terminal> → <símbolos>. Los símbolos se separan por espacios y no puede haber dos no terminales adyacentes.",
	}},
	{"INIT <non-terminal>", map[language.Tag]string{
		language.English: "Sets <non-terminal> as the initial symbol of the grammar.",
		language.Spanish: "Define a <no-terminal> como el símbolo inicial de la gramática.",
	}},
	{"PREC <terminal> <op> <terminal>", map[language.Tag]string{
		language.English: "Declares the precedence relation between two terminals. Operators are < (lower), = (equal) and > (higher). $ denotes the end of input.",
		language.Spanish: "Define la relación de precedencia entre dos terminales. Los operadores son < (menor), = (igual) y > (mayor). $ denota el fin de la entrada.",
	}},
	{"BUILD", map[language.Tag]string{
		language.English: "Builds the parser from the rules and precedences, printing the precedence functions f and g.",
		language.Spanish: "Construye el analizador sintáctico con las reglas y precedencias establecidas, mostrando las funciones de precedencia f y g.",
	}},
	{"PARSE <string>", map[language.Tag]string{
		language.English: "Parses <string>, showing the stack, the input and the actions performed.",
		language.Spanish: "Realiza análisis sintáctico sobre <string>, mostrando los estados de la entrada y la pila y las acciones realizadas.",
	}},
	{"TABLE", map[language.Tag]string{
		language.English: "Prints the precedence table of the built grammar.",
		language.Spanish: "Muestra la tabla de precedencia de la gramática construida.",
	}},
	{"GRAPH <file>", map[language.Tag]string{
		language.English: "Writes the precedence graph of the built grammar to <file>, in Graphviz format.",
		language.Spanish: "Escribe el grafo de precedencia de la gramática construida en <file>, en formato Graphviz.",
	}},
	{"RESET", map[language.Tag]string{
		language.English: "Discards the grammar.",
		language.Spanish: "Descarta la gramática.",
	}},
	{"EXIT | SALIR", map[language.Tag]string{
		language.English: "Quits the program.",
		language.Spanish: "Aborta la ejecución del programa.",
	}},
}

var helpFooter = map[language.Tag]string{
	language.English: "All symbols are single ASCII characters. Non-terminals are upper case letters, terminals are lower case letters or one of ! \" # % & ' ( ) * + , - . /",
	language.Spanish: "Todos los símbolos de la gramática deben ser caracteres ASCII individuales. Los no terminales deben ser letras mayúsculas y los terminales letras minúsculas o uno de ! \" # % & ' ( ) * + , - . /",
}

// help renders the command reference, wrapped to the configured width.
func (m messages) help() string {
	const indent = "      "
	var b strings.Builder
	for _, entry := range helpEntries {
		b.WriteString(entry.synopsis)
		b.WriteByte('\n')
		text := rosed.Edit(entry.text[m.lang]).Wrap(m.width - len(indent)).String()
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(indent)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	b.WriteString(rosed.Edit(helpFooter[m.lang]).Wrap(m.width).String())
	return b.String()
}
