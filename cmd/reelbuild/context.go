package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reelbuild/internal/artifacts"
	"reelbuild/internal/config"
	"reelbuild/internal/formats"
	"reelbuild/internal/logging"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// projectConfig returns a copy of the loaded config with the deliverables
// root moved to root when one is given.
func (c *commandContext) projectConfig(root string) (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	local := *cfg
	if strings.TrimSpace(root) != "" {
		if err := local.Rebase(root); err != nil {
			return nil, fmt.Errorf("resolve --root: %w", err)
		}
	}
	return &local, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func registryFor(cfg *config.Config) (*formats.Registry, error) {
	registry, err := formats.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("load formats: %w", err)
	}
	return registry, nil
}

func layoutFor(cfg *config.Config) artifacts.Layout {
	return artifacts.NewLayout(cfg.Paths.RootDir, cfg.Encoding.OutputPrefix)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func flagValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
