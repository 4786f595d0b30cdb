package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"log": map[string]interface{}{
			"level":  "info",
			"format": "text",
		},
		"simulator": map[string]interface{}{
			"home_dir": "", // empty means the current user's home
			"device":   "", // empty means the booted simulator
		},
		"fixtures":      []interface{}{},
		"fixtures_file": "",
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.simfixtures/config.yaml"
}
