package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/flamelink/pkg/cache"
	"github.com/matzehuels/flamelink/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"
prefix = "staging:"

[compose]
mode = "buffer"
strict = true
workgroup_size = 128

[server]
addr = ":9090"
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Prefix != "staging:" {
		t.Errorf("prefix = %q", cfg.Cache.Prefix)
	}
	if cfg.Cache.MongoDatabase != appName {
		t.Errorf("unset keys should keep defaults, mongo_database = %q", cfg.Cache.MongoDatabase)
	}
	if cfg.Compose.Mode != "buffer" || !cfg.Compose.Strict || cfg.Compose.WorkgroupSize != 128 {
		t.Errorf("compose = %+v", cfg.Compose)
	}
	if !cfg.Compose.SkipUnknown {
		t.Error("skip_unknown should default to true")
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := LoadConfig(missing, false)
	if err != nil {
		t.Fatalf("optional missing config: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}

	if _, err := LoadConfig(missing, true); err == nil {
		t.Error("required missing config should fail")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[cache\n", "parse config"},
		{"unknown key", "[cache]\nbackend = \"file\"\nttl = 3\n", "unknown key"},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n", "memcached"},
		{"bad mode", "[compose]\nmode = \"uniform\"\n", "uniform"},
		{"bad redis url", "[cache]\nredis_url = \"http://localhost:6379\"\n", "redis_url"},
		{"bad mongo uri", "[cache]\nmongo_uri = \"localhost:27017\"\n", "mongo_uri"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body), true)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestComposeConfigApplyTo(t *testing.T) {
	cc := ComposeConfig{Mode: "buffer", Strict: true, SkipUnknown: false, WorkgroupSize: 256}

	flags := pflag.NewFlagSet("compose", pflag.ContinueOnError)
	flags.String("mode", "", "")
	flags.Bool("strict", false, "")
	if err := flags.Parse([]string{"--mode=literal"}); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Mode: "literal", SkipUnknown: true}
	cc.applyTo(&opts, flags.Changed)

	if opts.Mode != "literal" {
		t.Errorf("flag should win: mode = %q", opts.Mode)
	}
	if !opts.Strict || opts.SkipUnknown || opts.WorkgroupSize != 256 {
		t.Errorf("config should fill unset flags: %+v", opts)
	}
}
