// Package config defines the root CLI structure parsed by Kong.
package config

import (
	"github.com/rthr/stationbuild/internal/cmd"
)

// LogOptions holds the global logging flags shared by every command.
type LogOptions struct {
	Level string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"STATIONBUILD_LOG_LEVEL"`
	File  string `help:"Optional log file; logs are mirrored there in addition to the console" env:"STATIONBUILD_LOG_FILE"`
}

// CLI is the root command grammar.
type CLI struct {
	Log        LogOptions `embed:"" prefix:"log-"`
	ConfigFile string     `name:"config" help:"Path to a configuration file (JSON, YAML or TOML)" env:"STATIONBUILD_CONFIG"`

	Settings cmd.Settings      `cmd:"" help:"Generate the default settings C++ module from the schema document"`
	Version  cmd.Version       `cmd:"" help:"Increment the build counter and generate the version header"`
	Build    cmd.Build         `cmd:"" help:"Run both generators, gated on the build pass"`
	Config   cmd.ConfigCommand `cmd:"" help:"Manage stationbuild configuration files"`
}
