package main

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	unitedlogs "github.com/mrexodia/united-logs-go"
	"github.com/mrexodia/united-logs-go/internal/ingest"
)

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs([]string{
		"-level", "warn",
		"-message", "queue backlog",
		"-category", "jobs",
		"-param", "depth=120",
		"-param", "ratio=0.75",
		"-param", "paused=false",
		"-param", "queue=emails",
		"-param", "zip=007",
		"-param", "code=1e3",
		"-param", "name=Infinity",
	})
	require.NoError(t, err)

	assert.Equal(t, unitedlogs.LevelWarning, args.Level)
	assert.Equal(t, "queue backlog", args.Message)
	assert.Equal(t, "jobs", args.Category)
	assert.Equal(t, unitedlogs.Params{
		"depth":  "120",
		"ratio":  "0.75",
		"paused": false,
		"queue":  "emails",
		"zip":    "007",
		"code":   "1e3",
		"name":   "Infinity",
	}, args.Params)
}

func TestParseArgsErrors(t *testing.T) {
	_, err := ParseArgs([]string{"-level", "info"})
	assert.ErrorContains(t, err, "-message")

	_, err = ParseArgs([]string{"-message", "m", "-level", "trace"})
	assert.ErrorIs(t, err, unitedlogs.ErrUnknownLevel)

	_, err = ParseArgs([]string{"-message", "m", "-param", "novalue"})
	assert.Error(t, err)
}

func TestClientConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: file-key\nenvironment: production\ndomain: http://file\n"), 0644))

	args, err := ParseArgs([]string{"-config", path, "-message", "m", "-environment", "testing"})
	require.NoError(t, err)

	cfg, err := args.clientConfig(unitedlogs.LoadConfig)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "testing", cfg.Environment)
	assert.Equal(t, "http://file", cfg.Domain)

	args.ConfigPath = "missing.yaml"
	_, err = args.clientConfig(func(string) (*unitedlogs.Config, error) { return nil, errors.New("nope") })
	assert.ErrorContains(t, err, "missing.yaml")
}

func TestRun(t *testing.T) {
	store := ingest.NewMemoryStore()
	ts := httptest.NewServer(ingest.NewServer(store))
	defer ts.Close()

	code := run([]string{"-api-key", "k", "-environment", "dev", "-domain", ts.URL, "-level", "error", "-message", "crash",
		"-param", "zip=007", "-param", "ver=1.50", "-param", "retry=true"})
	assert.Equal(t, 0, code)
	require.Len(t, store.Events(), 1)
	assert.Equal(t, "crash", store.Events()[0].Message)
	assert.Equal(t, map[string]string{"zip": "007", "ver": "1.50", "retry": "1"}, store.Events()[0].Params)

	// missing api key is a configuration error
	assert.Equal(t, 2, run([]string{"-environment", "dev", "-domain", ts.URL, "-message", "m"}))

	ts.Close()
	assert.Equal(t, 1, run([]string{"-api-key", "k", "-environment", "dev", "-domain", ts.URL, "-message", "m"}))
}
