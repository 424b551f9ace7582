package config

import (
	"flag"
	"os"

	"github.com/culbec/motocontest/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind host (e.g., "127.0.0.1")
//	-p string   bind port (e.g., "8888")
//	-d string   PostgreSQL DSN
//	-m          use in-memory repositories instead of postgres
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-d", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Host, "a", config.Host, "host to bind the server to")
	fs.StringVar(&config.Port, "p", config.Port, "port to bind the server to")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.BoolVar(&config.InMemory, "m", config.InMemory, "use in-memory repositories")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
