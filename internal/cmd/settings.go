package cmd

import (
	"log/slog"

	"github.com/rthr/stationbuild/internal/gen/schema"
	"github.com/rthr/stationbuild/internal/gen/settings"
)

// Settings compiles the schema document into the default settings C++ module.
type Settings struct {
	Schema string `help:"Settings schema document" default:"settings/default.yaml" env:"STATIONBUILD_SCHEMA" type:"path"`
	Output string `help:"Destination of the generated C++ module" default:"src/Core/DefaultSettings.cpp" env:"STATIONBUILD_SETTINGS_OUTPUT" type:"path"`
}

// Run is called by Kong when the settings command is executed.
func (s *Settings) Run(logger *slog.Logger) error {
	logger.Info("Generating default settings module", "schema", s.Schema, "output", s.Output)

	doc, err := schema.Load(logger, s.Schema)
	if err != nil {
		return err
	}
	return settings.New(logger).Generate(doc, s.Output)
}
