package prog

import (
	"flag"
	"os"

	"src.wl.sh/pkg/config"
)

// FlagSet wraps a [flag.FlagSet]. It provides methods to register flags that
// are shared by more than one subprogram; each such flag is registered once.
type FlagSet struct {
	*flag.FlagSet
	json   *bool
	config *ConfigFlags
}

// JSON returns a pointer to the value of the -json flag.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo or -c in JSON")
		fs.json = &json
	}
	return fs.json
}

// ConfigFlags keeps the flags that override the settings of the config file.
type ConfigFlags struct {
	File      string
	NoColor   bool
	HistoryDB string
	Operators string
	Editor    string
}

// Config returns the flags that select and override the config file.
func (fs *FlagSet) Config() *ConfigFlags {
	if fs.config == nil {
		var cf ConfigFlags
		fs.StringVar(&cf.File, "config", "",
			"Path to the config file (default $WL_CONFIG or $XDG_CONFIG_HOME/wl/config.yaml)")
		fs.BoolVar(&cf.NoColor, "no-color", false,
			"Disable color output")
		fs.StringVar(&cf.HistoryDB, "history-db", "",
			"Path to the history database; history is kept in memory by default")
		fs.StringVar(&cf.Operators, "operators", "",
			"Path to an operator table in YAML")
		fs.StringVar(&cf.Editor, "editor", "",
			"Line editor to use: auto, tty, basic or liner")
		fs.config = &cf
	}
	return fs.config
}

// Load loads the config file and applies the flags on top of it. The error,
// if any, is a *config.Error.
func (cf *ConfigFlags) Load() (config.Config, error) {
	c, err := config.Load(cf.File, os.Getenv)
	if err != nil {
		return c, err
	}
	if cf.NoColor {
		c.PromptStyleEnabled = false
	}
	if cf.HistoryDB != "" {
		c.HistoryDB = cf.HistoryDB
	}
	if cf.Operators != "" {
		c.Operators = cf.Operators
	}
	if cf.Editor != "" {
		c.Editor = cf.Editor
	}
	return c, c.Validate()
}
