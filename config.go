package unitedlogs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DomainEnvKey is consulted by DefaultEnvDomain when no domain is configured.
const DomainEnvKey = "UNITED_LOGS_DOMAIN"

type Config struct {
	APIKey      string        `yaml:"api_key"`
	Environment string        `yaml:"environment"`
	Domain      string        `yaml:"domain"`
	Levels      []string      `yaml:"levels"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LoadConfig reads a YAML client configuration from filename.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &config, nil
}

// DomainResolver supplies the domain when Config.Domain is empty.
type DomainResolver interface {
	Resolve() (string, bool)
}

// StaticDomain always resolves to itself. An empty StaticDomain resolves to nothing.
type StaticDomain string

func (d StaticDomain) Resolve() (string, bool) {
	return string(d), d != ""
}

// LookupDomain resolves the domain by calling Lookup with Key.
type LookupDomain struct {
	Lookup func(key string) (string, bool)
	Key    string
}

func (d LookupDomain) Resolve() (string, bool) {
	if d.Lookup == nil {
		return "", false
	}
	v, ok := d.Lookup(d.Key)
	return v, ok && v != ""
}

// EnvDomain resolves the domain from the process environment variable key.
func EnvDomain(key string) DomainResolver {
	return LookupDomain{Lookup: os.LookupEnv, Key: key}
}

// DefaultEnvDomain reads UNITED_LOGS_DOMAIN.
var DefaultEnvDomain = EnvDomain(DomainEnvKey)
