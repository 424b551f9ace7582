package config

import (
	"github.com/culbec/motocontest/internal/filex"
	"github.com/culbec/motocontest/internal/flagx"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	Host        string `json:"host"`
	Port        string `json:"port"`
	DatabaseDSN string `json:"database_dsn"`
	InMemory    bool   `json:"in_memory"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. Missing flag means no JSON overlay; an
// unreadable or invalid file panics, as misconfiguration should stop the
// process before it binds a socket.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}
	if err := filex.LoadJSON(jsonConfigFile, c); err != nil {
		panic(err)
	}

	if c.Host != "" {
		config.Host = c.Host
	}
	if c.Port != "" {
		config.Port = c.Port
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	config.InMemory = c.InMemory
}
