// internal/vault/vault.go
//
// Vault client wrapper for the eTAS portal.
//
// Context
// -------
//   - Provides a concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds simple KV-v2 helpers and per-key caching so repeated config
//     reloads do not hammer the server.
//   - The config loader hands this package `vault:`-prefixed references of
//     the form `<mount>/<path>#<field>`.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                    // lazily, on first ref.
//  2. pw,  err := cli.Resolve(ctx, "kv/etas/db#password")
//
// Environment expectations
// ------------------------
//   - VAULT_ADDR  – scheme and host of the Vault server.
//   - VAULT_TOKEN – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// defaultTTL caches resolved secrets across config reloads without keeping
// stale credentials around for long.
const defaultTTL = 5 * time.Minute

// Client is safe for concurrent use.  Zero value is invalid; construct
// with New.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#field → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client from the standard VAULT_* environment.
func New(_ context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{
		api:   apiCli,
		cache: make(map[string]cached),
	}, nil
}

// Resolve fetches the field named by ref, `<mount>/<path>#<field>`.  Hits
// within the cache TTL are served from memory.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	secretPath, field, ok := strings.Cut(ref, "#")
	if !ok || secretPath == "" || field == "" {
		return "", fmt.Errorf("malformed vault reference %q", ref)
	}
	return c.GetKV(ctx, secretPath, field, defaultTTL)
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result
// is cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}

	return sval, nil
}

// splitMount separates the KV mount from the relative secret path.
func splitMount(p string) (mount, rel string) {
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
