package config

import (
	"github.com/culbec/motocontest/internal/filex"
	"github.com/culbec/motocontest/internal/flagx"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
type JsonConfig struct {
	Host string `json:"host"`
	Port string `json:"port"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any.
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
}
