package cmd

import (
	"log/slog"

	"github.com/rthr/stationbuild/internal/gen/version"
)

// Version bumps the build counter and regenerates the version header.
type Version struct {
	CounterFile string `help:"Persisted build counter file" default:"versioning" env:"STATIONBUILD_COUNTER_FILE" type:"path"`
	Output      string `help:"Destination of the generated version header" default:"include/version.h" env:"STATIONBUILD_VERSION_OUTPUT" type:"path"`
	Major       int    `help:"Major version number" default:"0" env:"STATIONBUILD_MAJOR"`
	Minor       int    `help:"Minor version number" default:"1" env:"STATIONBUILD_MINOR"`
}

// Run is called by Kong when the version command is executed.
func (v *Version) Run(logger *slog.Logger) error {
	_, err := version.Stamp(logger, version.Config{
		Major:       v.Major,
		Minor:       v.Minor,
		CounterFile: v.CounterFile,
		Output:      v.Output,
	})
	return err
}
