package config

import (
	"github.com/alecthomas/kong"

	"github.com/dfhack/luastubs/internal/cmd"
)

// CLI is the root command line of luastubs.
type CLI struct {
	ConfigFile string           `name:"config" help:"Path to a json, yaml or toml configuration file" env:"LUASTUBS_CONFIG"`
	Log        Log              `embed:"" prefix:"log."`
	Version    kong.VersionFlag `help:"Print version and exit"`

	Generate cmd.Generate      `cmd:"" default:"withargs" help:"Generate Lua annotation stubs from the source tree (default)"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
}

// Log configures the process logger.
type Log struct {
	Level  string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"LUASTUBS_LOG_LEVEL"`
	File   string `help:"Log file path (console only when empty)" env:"LUASTUBS_LOG_FILE"`
	Format string `help:"Log record format; auto uses text on a terminal and json otherwise" enum:"auto,text,json" default:"auto" env:"LUASTUBS_LOG_FORMAT"`
}
