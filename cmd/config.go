package main

import (
	"io"

	"backlinks/internal/config"

	"github.com/spf13/pflag"
)

const defaultConfigPath = "config.yml"

// configSource finds -c/--config anywhere in args, before or after the
// subcommand. explicit is false when the flag is absent.
func configSource(args []string) (path string, explicit bool) {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	p := fs.StringP("config", "c", defaultConfigPath, "")
	_ = fs.Parse(args)

	return *p, fs.Changed("config")
}

// loadConfig reads the config file. Only the default file may be absent, in
// which case the environment and defaults are used.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if explicit {
		return config.LoadFile(path) //nolint: wrapcheck
	}

	return config.Load(path) //nolint: wrapcheck
}
