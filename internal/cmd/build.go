package cmd

import (
	"log/slog"
)

// Build runs both generators in the order the firmware build expects:
// settings module first, then the version stamp. The pass flag carries the
// orchestrator's signal; only a real build pass generates anything.
type Build struct {
	Pass     string   `help:"Build pass reported by the orchestrator" enum:"build,clean,dump" default:"build" env:"STATIONBUILD_PASS"`
	Settings Settings `embed:"" prefix:"settings."`
	Version  Version  `embed:"" prefix:"version."`
}

// Run is called by Kong when the build command is executed.
func (b *Build) Run(logger *slog.Logger) error {
	if b.Pass != "build" {
		logger.Info("Not a build pass, skipping generation", "pass", b.Pass)
		return nil
	}

	if err := b.Settings.Run(logger); err != nil {
		return err
	}
	return b.Version.Run(logger)
}
