package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the settings of the REPL.
type Config struct {
	Prompt           string `toml:"prompt"`
	Trace            string `toml:"trace"`
	Lang             string `toml:"lang"`
	FunctionFallback bool   `toml:"function_fallback"`
	ShowSteps        bool   `toml:"show_steps"`
	Width            int    `toml:"width"`
}

func defaultConfig() Config {
	return Config{
		Prompt:    "op> ",
		Trace:     "Error",
		ShowSteps: true,
		Width:     80,
	}
}

// loadConfig reads a TOML configuration file. Keys missing from the file keep
// their default values.
func loadConfig(filename string) (Config, error) {
	conf := defaultConfig()
	if filename == "" {
		return conf, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return conf, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("config file %s: %w", filename, err)
	}
	if conf.Width < 20 {
		conf.Width = 20
	}
	return conf, nil
}
