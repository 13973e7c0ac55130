package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// configFile is the repo-local file holding named configurations.
const configFile = "prmpt.yaml"

// defaultConfigName is the configuration run when no name is given.
const defaultConfigName = "base"

// reservedNames cannot be used as configuration names because they
// collide with subcommands.
var reservedNames = map[string]bool{
	"generate": true,
	"inject":   true,
	"help":     true,
}

// Config is one named generate configuration from prmpt.yaml.
type Config struct {
	Path             string   `yaml:"path"`
	Ignore           []string `yaml:"ignore"`
	Output           string   `yaml:"output"`
	Delimiter        string   `yaml:"delimiter"`
	Language         string   `yaml:"language"`
	Prompts          []string `yaml:"prompts"`
	DocsCommentsOnly bool     `yaml:"docs-comments-only"`
	DocsIgnore       []string `yaml:"docs-ignore"`
	UseGitignore     *bool    `yaml:"use-gitignore"`
	DisplayOutputs   bool     `yaml:"display-outputs"`
}

// configFields lists the recognized option keys, used to tell a single
// top-level configuration apart from a map of named ones.
var configFields = map[string]bool{
	"path": true, "ignore": true, "output": true, "delimiter": true,
	"language": true, "prompts": true, "docs-comments-only": true,
	"docs-ignore": true, "use-gitignore": true, "display-outputs": true,
}

func defaultBaseConfig() Config {
	return Config{
		Path:      ".",
		Output:    "prmpt.out",
		Delimiter: defaultFence,
	}
}

// applyDefaults fills in unset options.
func (c *Config) applyDefaults() {
	if c.Path == "" {
		c.Path = "."
	}
	if c.Output == "" {
		c.Output = "prmpt.out"
	}
	if c.Delimiter == "" {
		c.Delimiter = defaultFence
	}
}

// gitignoreEnabled reports whether .gitignore files should be respected;
// they are unless the configuration opts out.
func (c *Config) gitignoreEnabled() bool {
	return c.UseGitignore == nil || *c.UseGitignore
}

// loadConfigs reads prmpt.yaml from the current directory and returns
// the named configurations it defines. The file supports three shapes: a
// single flat configuration (stored under "base"), a map of named
// configurations, and a mixed form where top-level option keys form the
// base configuration alongside named ones. A missing file yields just
// the default base configuration; a malformed one is a fatal error.
func loadConfigs(path string) (map[string]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Config{defaultConfigName: defaultBaseConfig()}, nil
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var top map[string]yaml.Node
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	hasOptionKeys := false
	hasNamedKeys := false
	for key := range top {
		if configFields[key] {
			hasOptionKeys = true
		} else {
			hasNamedKeys = true
		}
	}

	configs := make(map[string]Config)

	if hasOptionKeys {
		// Top-level option keys form the base configuration; yaml
		// ignores the named-config keys here since they match no
		// Config field.
		var base Config
		if err := yaml.Unmarshal(data, &base); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
		base.applyDefaults()
		configs[defaultConfigName] = base
	}

	if hasNamedKeys {
		for key, node := range top {
			if configFields[key] {
				continue
			}
			if reservedNames[key] {
				return nil, fmt.Errorf("%s: %q is a reserved name and cannot be used for a configuration", path, key)
			}
			var cfg Config
			if err := node.Decode(&cfg); err != nil {
				return nil, fmt.Errorf("error parsing configuration %q in %s: %w", key, path, err)
			}
			cfg.applyDefaults()
			configs[key] = cfg
		}
	}

	if _, ok := configs[defaultConfigName]; !ok {
		configs[defaultConfigName] = defaultBaseConfig()
	}

	return configs, nil
}
