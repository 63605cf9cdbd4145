package config

import "github.com/spf13/pflag"

var CliArgs *CliConfig

type CliConfig struct {
	ConfigFile string
	Debug      bool
	Help       bool
}

func ParseArgs() {
	if CliArgs != nil {
		panic("already defined")
	}
	CliArgs = &CliConfig{}
	pflag.StringVar(&CliArgs.ConfigFile, "config", "", "Path to an optional YAML config file")
	pflag.BoolVarP(&CliArgs.Debug, "debug", "d", false, "Enable debug mode")
	pflag.BoolVarP(&CliArgs.Help, "help", "h", false, "Print usage and exit")
	pflag.Parse()
}
