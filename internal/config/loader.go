// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file — `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `ETAS_`, where `__` maps to “.”
     (e.g., `ETAS_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, any string value beginning with `vault:` is resolved
through the Vault client, the tree is unmarshalled into strongly-typed
structs, validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay, Vault hits.
  • ERROR spans — YAML parse, env overlay, Vault, unmarshal, validation.
  • INFO  span  — final “config loaded” with key highlights.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/ica-so/etas-portal/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves ETAS_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("ETAS_ROOT"); r != "" {
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

// Load reads .env, YAML, env overrides, resolves Vault references,
// validates, and caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: ETAS_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("ETAS_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveVaultRefs(k); err != nil {
		zap.S().Errorw("config vault resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"verification_base", cfg.Document.VerificationBase,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// applyDefaults fills tunables a deployment rarely overrides.
func applyDefaults(cfg *Config) {
	if cfg.Document.InstitutionCode == "" {
		cfg.Document.InstitutionCode = "FGS"
	}
	if cfg.Document.RasterScale == 0 {
		cfg.Document.RasterScale = 4
	}
	if cfg.Document.ExportTimeoutSec == 0 {
		cfg.Document.ExportTimeoutSec = 30
	}
}

/*──────────────────────────── vault overlay ───────────────────────────────*/

// resolveVaultRefs rewrites every `vault:<mount/path>#<field>` string in
// the merged tree to the secret it references.  The Vault client is only
// constructed when at least one reference exists, so deployments without
// Vault never need VAULT_ADDR set.
func resolveVaultRefs(k *koanf.Koanf) error {
	var cli *vault.Client

	for key, val := range k.All() {
		s, ok := val.(string)
		if !ok || !strings.HasPrefix(s, "vault:") {
			continue
		}

		if cli == nil {
			var err error
			cli, err = vault.New(context.Background())
			if err != nil {
				return fmt.Errorf("config key %s needs Vault: %w", key, err)
			}
		}

		secret, err := cli.Resolve(context.Background(), strings.TrimPrefix(s, "vault:"))
		if err != nil {
			return fmt.Errorf("resolve %s: %w", key, err)
		}
		if err := k.Set(key, secret); err != nil {
			return err
		}
		zap.S().Debugw("vault reference resolved", "key", key)
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }

// ResolvedDSN substitutes the secret password into the DSN template when
// the template carries a %s verb; otherwise the DSN is returned verbatim.
func (d Database) ResolvedDSN() string {
	if strings.Contains(d.DSN, "%s") {
		return fmt.Sprintf(d.DSN, d.Password)
	}
	return d.DSN
}
