// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from four layers (highest
precedence last):

  1. Built-in defaults, so a bare checkout runs with no files at all.
  2. Optional `.env` file at `<root>/conf/.env`.
  3. Optional `conf/global.yaml`.
  4. Environment variables prefixed `SURVEY_`, where `__` maps to “.”
     (e.g., `SURVEY_HTTP__LISTEN_ADDR → http.listen_addr`).

String values of the form `vault:<mount>/<path>#<key>` are then swapped
for the secret they name.  After merging, the tree is unmarshalled into
strongly-typed structs, validated, enriched with the runtime root path,
and cached in an `atomic.Pointer` for lock-free reads.  `Reload()` calls
`Load()` again with the same secret resolver and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, env overlay, secret refs.
  • ERROR spans: YAML parse, env overlay, unmarshal, validation failures.
  • INFO span: final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "SURVEY_"

// SecretPrefix marks values resolved through Secrets.
const SecretPrefix = "vault:"

// ErrNoSecrets is returned when the tree holds a vault reference but no
// resolver was supplied.
var ErrNoSecrets = errors.New("config references a vault secret but no vault client is configured")

// Secrets resolves `vault:` references.  *vault.Client satisfies it.
type Secrets interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

var (
	current     atomic.Pointer[Config]
	lastSecrets atomic.Value // Secrets, reused by Reload
)

// defaults seed the tree before any file is read.
var defaults = map[string]any{
	"http.listen_addr":           ":8080",
	"http.force_https":           false,
	"http.read_timeout":          "10s",
	"http.write_timeout":         "15s",
	"http.idle_timeout":          "60s",
	"http.shutdown_timeout":      "10s",
	"survey.login_delay":         "1s",
	"survey.submit_delay":        "3s",
	"survey.demo_delay":          "1500ms",
	"survey.failure_rate":        0.1,
	"survey.timezone":            "Asia/Jakarta",
	"survey.debug":               false,
	"session.idle_ttl":           "30m",
	"session.max_entries":        10000,
	"session.evict_interval":     "1m",
	"requestinfo.geo_cache_size": 4096,
	"log.level":                  "info",
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves SURVEY_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root and loads from there.  sec may be nil when no
// value uses a vault reference.
func Load(ctx context.Context, sec Secrets) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)
	return LoadFrom(ctx, root, sec)
}

// LoadFrom reads defaults, .env, YAML, env overrides, resolves secrets,
// validates, and caches Config.
func LoadFrom(ctx context.Context, root string, sec Secrets) (*Config, error) {
	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, err
		}
	}

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	switch err := k.Load(file.Provider(yamlPath), yaml.Parser()); {
	case errors.Is(err, fs.ErrNotExist):
		zap.S().Debugw("config yaml absent, using defaults", "file", yamlPath)
	case err != nil:
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	default:
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: SURVEY_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, k, sec); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if cfg.Survey.Definition != "" && !filepath.IsAbs(cfg.Survey.Definition) {
		cfg.Survey.Definition = filepath.Join(root, cfg.Survey.Definition)
	}
	if cfg.RequestInfo.GeoIPPath != "" && !filepath.IsAbs(cfg.RequestInfo.GeoIPPath) {
		cfg.RequestInfo.GeoIPPath = filepath.Join(root, cfg.RequestInfo.GeoIPPath)
	}
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	if sec != nil {
		lastSecrets.Store(secretsBox{sec})
	}
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"failure_rate", cfg.Survey.FailureRate,
		"debug", cfg.Survey.Debug,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets replaces every `vault:` string in k.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, sec Secrets) error {
	for _, key := range k.Keys() {
		s, ok := k.Get(key).(string)
		if !ok || !strings.HasPrefix(s, SecretPrefix) {
			continue
		}
		if sec == nil {
			return fmt.Errorf("%s: %w", key, ErrNoSecrets)
		}
		zap.S().Debugw("config secret ref", "key", key)

		rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		val, err := sec.Resolve(rctx, s)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return err
		}
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// secretsBox keeps atomic.Value's concrete type stable across resolvers.
type secretsBox struct{ Secrets }

// Get returns the last loaded Config, or nil before the first Load.
func Get() *Config { return current.Load() }

// Reload loads again with the resolver from the last successful Load.
func Reload(ctx context.Context) error {
	var sec Secrets
	if b, ok := lastSecrets.Load().(secretsBox); ok {
		sec = b.Secrets
	}
	_, err := Load(ctx, sec)
	return err
}
