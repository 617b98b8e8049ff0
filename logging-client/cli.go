package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	unitedlogs "github.com/mrexodia/united-logs-go"
)

// Args are the command-line arguments for a single send.
type Args struct {
	ConfigPath  string
	APIKey      string
	Environment string
	Domain      string
	Level       unitedlogs.Level
	Message     string
	Category    string
	Params      unitedlogs.Params
	Verbose     bool
}

// paramFlag collects repeated -param key=value flags.
type paramFlag unitedlogs.Params

func (p paramFlag) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

func (p paramFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("param %q must be key=value", s)
	}
	p[key] = parseParamValue(value)
	return nil
}

// parseParamValue types only true/false; everything else, numbers included, is
// sent exactly as typed.
func parseParamValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// ParseArgs parses args without touching os.Args so tests can call it directly.
func ParseArgs(args []string) (*Args, error) {
	fs := flag.NewFlagSet("logging-client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	params := paramFlag{}
	var (
		configPath  = fs.String("config", "", "Path to a YAML client config")
		apiKey      = fs.String("api-key", "", "API key (overrides config)")
		environment = fs.String("environment", "", "Environment tag (overrides config)")
		domain      = fs.String("domain", "", "united-logs domain (overrides config and $"+unitedlogs.DomainEnvKey+")")
		level       = fs.String("level", "info", "Level: error|warning|info|success")
		message     = fs.String("message", "", "Event message (required)")
		category    = fs.String("category", "", "Event category")
		verbose     = fs.Bool("v", false, "Log request details to stderr")
	)
	fs.Var(params, "param", "Extra key=value param (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*message) == "" {
		return nil, errors.New("missing required -message argument")
	}
	lvl, err := unitedlogs.ParseLevel(*level)
	if err != nil {
		return nil, err
	}

	out := &Args{
		ConfigPath:  *configPath,
		APIKey:      *apiKey,
		Environment: *environment,
		Domain:      *domain,
		Level:       lvl,
		Message:     *message,
		Category:    *category,
		Verbose:     *verbose,
	}
	if len(params) > 0 {
		out.Params = unitedlogs.Params(params)
	}
	return out, nil
}

// clientConfig merges the optional config file with flag overrides.
func (a *Args) clientConfig(load func(string) (*unitedlogs.Config, error)) (unitedlogs.Config, error) {
	var cfg unitedlogs.Config
	if a.ConfigPath != "" {
		loaded, err := load(a.ConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", a.ConfigPath, err)
		}
		cfg = *loaded
	}
	if a.APIKey != "" {
		cfg.APIKey = a.APIKey
	}
	if a.Environment != "" {
		cfg.Environment = a.Environment
	}
	if a.Domain != "" {
		cfg.Domain = a.Domain
	}
	return cfg, nil
}
