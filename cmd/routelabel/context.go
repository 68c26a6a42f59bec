package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"routelabel/internal/config"
)

// skipConfigLoad marks commands that load (or write) the config themselves.
const skipConfigLoad = "skipConfigLoad"

// commandContext is shared by every subcommand of one invocation.
type commandContext struct {
	configFlag string
	load       func() (*config.Config, error)
}

func newCommandContext() *commandContext {
	c := &commandContext{}
	c.load = sync.OnceValues(func() (*config.Config, error) {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			return nil, err
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, err
		}
		return cfg, nil
	})
	return c
}

func (c *commandContext) configPath() string {
	return strings.TrimSpace(c.configFlag)
}

// ensureConfig loads the configuration once per invocation and creates the
// directories it names.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	return c.load()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigLoad] == "true" {
			return true
		}
	}
	return false
}
