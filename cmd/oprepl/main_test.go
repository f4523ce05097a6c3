package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/opgen/engine"
	"github.com/npillmayer/opgen/op"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const arithmeticScript = `
# classic arithmetic grammar
RULE E E + E
RULE E E * E
RULE E n
INIT E
PREC n > +
PREC n > *
PREC n > $
PREC + < n
PREC + > +
PREC + < *
PREC + > $
PREC * < n
PREC * > +
PREC * > *
PREC * > $
PREC $ < n
PREC $ < +
PREC $ < *
BUILD
`

func TestScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.repl")
	defer teardown()
	//
	intp := NewIntp(defaultConfig())
	quit, err := intp.run(strings.NewReader(arithmeticScript + "PARSE n + n * n\nEXIT\nPARSE n\n"))
	require.NoError(t, err)
	assert.True(t, quit)
	assert.True(t, intp.engine.Built())
	res, err := intp.engine.Parse("n * n")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Steps, "steps are recorded by default")
}

func TestEvalErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.repl")
	defer teardown()
	//
	intp := NewIntp(defaultConfig())
	_, err := intp.Eval("dance")
	assert.True(t, errors.Is(err, engine.ErrUnknownCommand))
	_, err = intp.Eval("PREC + <")
	assert.True(t, errors.Is(err, engine.ErrArgCount))
	_, err = intp.Eval("RULE A B C")
	assert.Equal(t, op.NotAnOperatorGrammar, op.KindOf(err))
	_, err = intp.Eval("PARSE n")
	assert.Equal(t, op.NotBuilt, op.KindOf(err))
	_, err = intp.Eval("TABLE")
	assert.Equal(t, op.NotBuilt, op.KindOf(err))
	_, err = intp.Eval("GRAPH g.dot")
	assert.Equal(t, op.NotBuilt, op.KindOf(err))
	_, err = intp.Eval("RULE E n")
	require.NoError(t, err)
	_, err = intp.Eval("PREC n ~ n")
	assert.True(t, errors.Is(err, engine.ErrRelation))
	quit, err := intp.Eval("salir")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestTableAndGraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opgen.repl")
	defer teardown()
	//
	intp := NewIntp(defaultConfig())
	_, err := intp.run(strings.NewReader(arithmeticScript))
	require.NoError(t, err)
	_, err = intp.Eval("TABLE")
	assert.NoError(t, err)
	dot := filepath.Join(t.TempDir(), "prec.dot")
	_, err = intp.Eval("GRAPH " + dot)
	require.NoError(t, err)
	data, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
	_, err = intp.Eval("RULE E ( E )")
	assert.Equal(t, op.GrammarFrozen, op.KindOf(err))
	_, err = intp.Eval("RESET")
	require.NoError(t, err)
	_, err = intp.Eval("RULE E ( E )")
	assert.NoError(t, err)
}

func TestLoadConfig(t *testing.T) {
	conf, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), conf)
	filename := filepath.Join(t.TempDir(), "oprepl.toml")
	toml := `
prompt = "G> "
lang = "es"
function_fallback = true
show_steps = false
`
	require.NoError(t, os.WriteFile(filename, []byte(toml), 0644))
	conf, err = loadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, "G> ", conf.Prompt)
	assert.Equal(t, "es", conf.Lang)
	assert.True(t, conf.FunctionFallback)
	assert.False(t, conf.ShowSteps)
	assert.Equal(t, 80, conf.Width)
	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestMessages(t *testing.T) {
	assert.Equal(t, language.Spanish, selectLanguage("es-AR"))
	assert.Equal(t, language.English, selectLanguage("en-GB"))
	assert.Equal(t, language.English, selectLanguage("de-DE"))
	for _, lang := range supportedLanguages {
		m := messages{lang: lang, width: 60}
		for key := msgWelcome; key <= msgUnknownError; key++ {
			_, ok := catalog[lang][key]
			assert.True(t, ok, "message %d missing for %v", key, lang)
		}
		for kind := op.InvalidSymbol; kind <= op.GrammarFrozen; kind++ {
			_, ok := errorCatalog[lang][kind]
			assert.True(t, ok, "error text for %v missing for %v", kind, lang)
		}
		assert.Contains(t, m.help(), "PARSE <string>")
		text := m.errorText(op.NewError(op.Rejected, ""))
		assert.Contains(t, text, "input rejected")
	}
	es := messages{lang: language.Spanish, width: 80}
	assert.Equal(t, "Regla E → n agregada.", es.text(msgRuleAdded, "E → n"))
}
