// Package config loads the settings of the interactive session.
//
// Settings come from three layers in increasing priority: the defaults, a
// YAML file, and command-line flags. The resulting Config is passed
// explicitly to the parts that need it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"src.wl.sh/pkg/env"
)

// Editor names accepted in Config.Editor.
const (
	EditorAuto  = "auto"
	EditorTTY   = "tty"
	EditorBasic = "basic"
	EditorLiner = "liner"
)

// Config keeps the settings of a session.
type Config struct {
	// Maximum number of history entries. Zero means no limit.
	MaxHistoryEntries int `yaml:"max_history_entries"`
	// Whether prompts and hints are styled.
	PromptStyleEnabled bool `yaml:"prompt_style"`
	// Prompt shown when reading the continuation of an incomplete input.
	ContinuationPrompt string `yaml:"continuation_prompt"`
	// Number of completion candidates above which the editor asks before
	// listing them. Zero means never asking.
	CompletionTriggerLimit int `yaml:"completion_trigger_limit"`
	// Path of the history database. Empty means history is kept in memory.
	HistoryDB string `yaml:"history_db"`
	// Which line editor to use.
	Editor string `yaml:"editor"`
	// Path of an operator table file. Empty means the built-in table.
	Operators string `yaml:"operators"`
}

// Default returns the default Config.
func Default() Config {
	return Config{
		MaxHistoryEntries:      1000,
		PromptStyleEnabled:     true,
		ContinuationPrompt:     "   ... ",
		CompletionTriggerLimit: 80,
		Editor:                 EditorAuto,
	}
}

// Error is returned for an invalid configuration. It is fatal.
type Error struct {
	// The file the setting came from, or empty.
	File    string
	Message string
}

func (e *Error) Error() string {
	if e.File == "" {
		return "config: " + e.Message
	}
	return "config " + e.File + ": " + e.Message
}

// Validate checks that the settings of c are usable.
func (c *Config) Validate() error {
	switch {
	case c.MaxHistoryEntries < 0:
		return &Error{Message: fmt.Sprintf("max_history_entries must be non-negative, got %d", c.MaxHistoryEntries)}
	case c.CompletionTriggerLimit < 0:
		return &Error{Message: fmt.Sprintf("completion_trigger_limit must be non-negative, got %d", c.CompletionTriggerLimit)}
	}
	switch c.Editor {
	case EditorAuto, EditorTTY, EditorBasic, EditorLiner:
	default:
		return &Error{Message: fmt.Sprintf("editor must be one of auto, tty, basic, liner, got %q", c.Editor)}
	}
	return nil
}

// Decode applies the settings in a YAML document on top of c and validates
// the result. Unknown keys are errors. The name is used in error messages.
func (c *Config) Decode(name string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return &Error{File: name, Message: err.Error()}
	}
	if err := c.Validate(); err != nil {
		err.(*Error).File = name
		return err
	}
	return nil
}

// Load returns the Config from the defaults and the file at path. If path is
// empty, the file is looked up with Find; it is not an error if no file is
// found then.
func Load(path string, getenv func(string) string) (Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = Find(getenv)
		if path == "" {
			return c, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, &Error{File: path, Message: err.Error()}
	}
	return c, c.Decode(path, data)
}

// Find returns the path of the config file: the value of $WL_CONFIG if set,
// and otherwise wl/config.yaml under the XDG config directory. It returns ""
// if no directory is known.
func Find(getenv func(string) string) string {
	if p := getenv(env.WL_CONFIG); p != "" {
		return p
	}
	dir := getenv(env.XDG_CONFIG_HOME)
	if dir == "" {
		home := getenv(env.HOME)
		if home == "" {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wl", "config.yaml")
}
