package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kartiknair/lswift/pkg/ast"
)

// FileName is the project file looked up next to, or above, a source file.
const FileName = "lswift.toml"

// CCEnv overrides the configured C compiler.
const CCEnv = "LSWIFT_CC"

// LLIEnv overrides the configured LLVM interpreter.
const LLIEnv = "LSWIFT_LLI"

type Config struct {
	Entry  string `toml:"entry"`  // name of the entry function
	CC     string `toml:"cc"`     // clang used to turn IR into executables
	LLI    string `toml:"lli"`    // lli used by `jit` to execute IR in place
	Output string `toml:"output"` // executable written by `build`
	Timing bool   `toml:"timing"` // print per-stage timings
}

func DefaultConfig() *Config {
	return &Config{
		Entry:  ast.EntryFunctionName,
		CC:     "clang",
		LLI:    "lli",
		Output: "a.out",
	}
}

// FindAndLoad looks for lswift.toml from startDir upwards and loads it. The
// defaults are returned, with an empty path, when there is none.
func FindAndLoad(startDir string) (*Config, string, error) {
	configPath := FindConfigFile(startDir)
	if configPath == "" {
		c := DefaultConfig()
		c.applyEnv()
		return c, "", nil
	}

	c, err := Load(configPath)
	if err != nil {
		return nil, "", err
	}

	return c, configPath, nil
}

// FindConfigFile returns the path of the nearest lswift.toml, or "".
func FindConfigFile(startDir string) string {
	dir := startDir

	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load decodes a config file. Keys it does not set keep their defaults.
func Load(path string) (*Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, err
	}

	d := DefaultConfig()
	if c.Entry == "" {
		c.Entry = d.Entry
	}
	if c.CC == "" {
		c.CC = d.CC
	}
	if c.LLI == "" {
		c.LLI = d.LLI
	}
	if c.Output == "" {
		c.Output = d.Output
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	if cc := os.Getenv(CCEnv); cc != "" {
		c.CC = cc
	}
	if lli := os.Getenv(LLIEnv); lli != "" {
		c.LLI = lli
	}
}
