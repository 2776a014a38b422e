package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/foomo/seolint/htmlschema"
	"github.com/foomo/seolint/reports"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFilename       = "config.yml"
	DefaultRulesKey       = "rules"
	DefaultAgent          = "foomo-seolint"
	DefaultTimeout        = 30 * time.Second
	DefaultMaxContentSize = int64(10 * 1024 * 1024)
	DefaultAddr           = ":8080"
	DefaultSchedule       = "@every 1h"
)

type Service struct {
	Addr     string   `yaml:"addr"`
	Schedule string   `yaml:"schedule"`
	Targets  []string `yaml:"targets"`
}

type Config struct {
	Rules          htmlschema.Config `yaml:"rules"`
	Output         reports.Output    `yaml:"output"`
	Agent          string            `yaml:"agent"`
	IgnoreRobots   bool              `yaml:"ignorerobots"`
	Timeout        time.Duration     `yaml:"timeout"`
	MaxContentSize int64             `yaml:"maxcontentsize"`
	LogLevel       string            `yaml:"loglevel"`
	Service        Service           `yaml:"service"`
}

func defaultConfig() *Config {
	return &Config{
		Output:         reports.Output{Type: reports.OutputConsole},
		Agent:          DefaultAgent,
		Timeout:        DefaultTimeout,
		MaxContentSize: DefaultMaxContentSize,
		LogLevel:       "info",
		Service: Service{
			Addr:     DefaultAddr,
			Schedule: DefaultSchedule,
		},
	}
}

// Load parses a yaml config, unset values keep their defaults
func Load(yamlBytes []byte) (conf *Config, err error) {
	conf = defaultConfig()
	errUnmarshal := yaml.Unmarshal(yamlBytes, conf)
	if errUnmarshal != nil {
		return nil, errUnmarshal
	}
	return conf, nil
}

// Get loads the config from filename, config.yml if empty
func Get(filename string) (conf *Config, err error) {
	yamlBytes, errRead := readFile(filename)
	if errRead != nil {
		return nil, errRead
	}
	return Load(yamlBytes)
}

// LoadRules reads the rule configuration stored under key in filename.
// An empty key selects the rules entry.
func LoadRules(filename, key string) (rules htmlschema.Config, err error) {
	if key == "" {
		key = DefaultRulesKey
	}
	yamlBytes, errRead := readFile(filename)
	if errRead != nil {
		return nil, errRead
	}
	entries := map[string]yaml.Node{}
	errUnmarshal := yaml.Unmarshal(yamlBytes, &entries)
	if errUnmarshal != nil {
		return nil, errUnmarshal
	}
	node, ok := entries[key]
	if !ok {
		return nil, fmt.Errorf("config with name '%s' doesn't exist", key)
	}
	errDecode := node.Decode(&rules)
	if errDecode != nil {
		return nil, errDecode
	}
	if rules == nil {
		return nil, fmt.Errorf("%w: config with name '%s' has no rules", htmlschema.ErrInvalidConfig, key)
	}
	return rules, nil
}

func readFile(filename string) ([]byte, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	yamlBytes, errRead := os.ReadFile(filename)
	if errors.Is(errRead, os.ErrNotExist) {
		return nil, fmt.Errorf("provided path (%s) does not exist", filename)
	}
	return yamlBytes, errRead
}
