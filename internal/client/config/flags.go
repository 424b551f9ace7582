package config

import (
	"flag"
	"os"

	"github.com/culbec/motocontest/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   server host (e.g., "127.0.0.1")
//	-p string   server port (e.g., "8888")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Host, "a", config.Host, "server host to connect to")
	fs.StringVar(&config.Port, "p", config.Port, "server port to connect to")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
