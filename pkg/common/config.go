package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	koanf "github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

const (
	configPathEnv = "CONFIG_PATH"
	configJSONEnv = "CONFIG_JSON"
)

var defaultConfig = []byte(`
server:
  host: 0.0.0.0
  port: 1994
database:
  postgres:
    host: localhost
    port: 5432
    name: mailsift
    sslMode: disable
  redis:
    mode: single
    addrs:
      - localhost:6379
gmail:
  apiBase: https://gmail.googleapis.com/gmail/v1
  recencyDays: 30
  requestTimeout: 60s
classifier:
  url: http://localhost:5000
  timeout: 30s
summarizer:
  apiBase: https://generativelanguage.googleapis.com/v1beta
  model: gemini-1.5-flash
  timeout: 30s
sync:
  defaultLimit: 20
  maxLimit: 100
  pacingDelay: 100ms
  lockTTL: 5m
`)

// ConfigManager loads application configuration from the baked-in defaults,
// an optional CONFIG_PATH file (YAML or JSON), and an optional CONFIG_JSON
// environment override, in that order.
type ConfigManager[T any] struct {
	k      *koanf.Koanf
	config T
}

func NewConfigManager[T any]() (*ConfigManager[T], error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), kyaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path := os.Getenv(configPathEnv); path != "" {
		parser, err := parserForPath(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config file %q: %w", path, err)
		}
		log.Info().Str("path", path).Msg("loaded config file")
	}

	if raw := os.Getenv(configJSONEnv); raw != "" {
		if err := k.Load(rawbytes.Provider([]byte(raw)), kjson.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load CONFIG_JSON: %w", err)
		}
	}

	cm := &ConfigManager[T]{k: k}
	if err := cm.unmarshal(); err != nil {
		return nil, err
	}
	return cm, nil
}

// GetConfig returns the decoded configuration
func (cm *ConfigManager[T]) GetConfig() T {
	return cm.config
}

func (cm *ConfigManager[T]) unmarshal() error {
	return cm.k.UnmarshalWithConf("", &cm.config, koanf.UnmarshalConf{
		Tag: "key",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cm.config,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	})
}

func parserForPath(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return kyaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
}
