// Package config reads and writes per-document and global settings as
// TOML, in two tiers: a repo-level config under the document directory
// and a global config under the user's home directory, with repo values
// overriding global ones.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// Known keys. For example: actor.id, sync.retryLimit, compaction.intervalSeconds, signing.keyPath.
const (
	KeyActorID                = "actor.id"
	KeySyncRetryLimit         = "sync.retryLimit"
	KeyCompactionIntervalSecs = "compaction.intervalSeconds"
	KeySigningKeyPath         = "signing.keyPath"
	KeyVerifySignatures       = "verifySignatures"
)

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	cfgDir := filepath.Join(home, ".config", "peritext")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "config.toml"), nil
}

func repoConfigPath(docPath string) string {
	return filepath.Join(docPath, ".peritext", "config.toml")
}

func loadToml(path string) (*toml.Tree, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		tree, err := toml.TreeFromMap(map[string]interface{}{})
		if err != nil {
			return nil, fmt.Errorf("failed to create empty config: %w", err)
		}
		return tree, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return toml.LoadBytes(b)
}

func saveToml(tree *toml.Tree, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(tree.String()), 0644)
}

// SetGlobalValue sets key=val in ~/.config/peritext/config.toml.
func SetGlobalValue(key, val string) error {
	gp, err := globalConfigPath()
	if err != nil {
		return err
	}
	tree, err := loadToml(gp)
	if err != nil {
		return err
	}
	tree.Set(key, val)
	return saveToml(tree, gp)
}

// SetRepoValue sets key=val in <docPath>/.peritext/config.toml.
func SetRepoValue(docPath, key, val string) error {
	rp := repoConfigPath(docPath)
	tree, err := loadToml(rp)
	if err != nil {
		return err
	}
	tree.Set(key, val)
	return saveToml(tree, rp)
}

// GetValue returns key from the repo config at docPath, falling back to
// the global config if the repo config doesn't set it. Returns "" with
// no error if neither tier sets the key.
func GetValue(docPath, key string) (string, error) {
	if docPath != "" {
		rp := repoConfigPath(docPath)
		tree, err := loadToml(rp)
		if err != nil {
			return "", err
		}
		if v := tree.Get(key); v != nil {
			return fmt.Sprintf("%v", v), nil
		}
	}

	gp, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	tree, err := loadToml(gp)
	if err != nil {
		return "", err
	}
	if v := tree.Get(key); v != nil {
		return fmt.Sprintf("%v", v), nil
	}
	return "", nil
}

// GetValueDefault is GetValue with a fallback applied when the key is
// unset in either tier.
func GetValueDefault(docPath, key, def string) string {
	v, err := GetValue(docPath, key)
	if err != nil || v == "" {
		return def
	}
	return v
}
