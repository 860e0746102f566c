package cli

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/metoxid/metoxid-cli/internal/logger"
	"github.com/metoxid/metoxid-cli/pkg/files"
	"github.com/metoxid/metoxid-cli/pkg/models"
)

// CommandContext holds what every command needs: settings and a logger
type CommandContext struct {
	ConfigPath string
	Settings   *models.Settings
	Logger     zerolog.Logger

	closer io.Closer
}

// NewCommandContext loads settings from configPath (the default location
// when empty) and opens the configured log.
func NewCommandContext(configPath string) (*CommandContext, error) {
	if configPath == "" {
		path, err := files.DefaultSettingsPath()
		if err != nil {
			return nil, err
		}
		configPath = path
	}

	settings, err := files.ReadSettings(configPath)
	if err != nil {
		return nil, err
	}

	log, closer, err := logger.Open(settings.Log)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		ConfigPath: configPath,
		Settings:   settings,
		Logger:     log.With().Str("config", configPath).Logger(),
		closer:     closer,
	}, nil
}

// Close releases the log file
func (c *CommandContext) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
