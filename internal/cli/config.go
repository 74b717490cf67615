package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flamelink/internal/server"
	"github.com/matzehuels/flamelink/pkg/bind"
	"github.com/matzehuels/flamelink/pkg/cache"
	"github.com/matzehuels/flamelink/pkg/errors"
	"github.com/matzehuels/flamelink/pkg/kernel"
	"github.com/matzehuels/flamelink/pkg/pipeline"
)

const configFileName = "config.toml"

// Config is the on-disk CLI configuration. Every key is optional; flags
// override whatever the file sets.
type Config struct {
	Cache   cache.Config  `toml:"cache"`
	Compose ComposeConfig `toml:"compose"`
	Server  ServerConfig  `toml:"server"`
}

// ComposeConfig holds defaults for compose runs.
type ComposeConfig struct {
	Mode          string `toml:"mode"`
	Strict        bool   `toml:"strict"`
	SkipUnknown   bool   `toml:"skip_unknown"`
	WorkgroupSize int    `toml:"workgroup_size"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: cache.Config{Backend: cache.BackendFile, MongoDatabase: appName},
		Compose: ComposeConfig{
			Mode:          bind.ModeLiteral.String(),
			SkipUnknown:   true,
			WorkgroupSize: kernel.DefaultWorkgroupSize,
		},
		Server: ServerConfig{Addr: server.DefaultAddr},
	}
}

// LoadConfig decodes path over DefaultConfig. A missing file is an error
// only when required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if u := c.Cache.RedisURL; u != "" {
		if err := errors.ValidateURL(u, "redis", "rediss"); err != nil {
			return fmt.Errorf("redis_url: %w", err)
		}
	}
	if u := c.Cache.MongoURI; u != "" {
		if err := errors.ValidateURL(u, "mongodb", "mongodb+srv"); err != nil {
			return fmt.Errorf("mongo_uri: %w", err)
		}
	}
	if _, err := bind.ParseMode(c.Compose.Mode); err != nil {
		return err
	}
	return nil
}

// applyTo fills compose options the user did not set on the command line.
func (cc ComposeConfig) applyTo(opts *pipeline.Options, changed func(string) bool) {
	if !changed("mode") {
		opts.Mode = cc.Mode
	}
	if !changed("strict") {
		opts.Strict = cc.Strict
	}
	if !changed("skip-unknown") {
		opts.SkipUnknown = cc.SkipUnknown
	}
	if !changed("workgroup-size") {
		opts.WorkgroupSize = cc.WorkgroupSize
	}
}
