// Package profile loads and persists the connection profile. The profile is
// written by 'diem connect', removed by 'diem close', and every other
// command requires it.
package profile

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrNotConfigured is returned when no connection profile has been saved.
var ErrNotConfigured = errors.New("not connected: run 'diem connect' first")

// EmbeddingConfig configures the optional text embedding provider.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Profile is the resolved session configuration.
type Profile struct {
	// URI is the connection URI as supplied by the user.
	URI string
	// Driver is the database driver name, "mysql" or "postgres".
	Driver string
	// DSN is the driver-specific connection string derived from URI.
	DSN string

	Embedding EmbeddingConfig
}

// ConfigPath returns the profile location, overridable with DIEM_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv("DIEM_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".diem", "config.json"), nil
}

// Load reads the persisted profile and applies DIEM_* environment
// overrides. It fails with ErrNotConfigured when neither a config file nor a
// DIEM_URI override exists.
func Load() (*Profile, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("diem")
	v.AutomaticEnv()

	if fileExists(path) {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	uri := v.GetString("uri")
	if uri == "" {
		return nil, ErrNotConfigured
	}

	embedding, err := LoadEmbedding()
	if err != nil {
		return nil, err
	}
	p := &Profile{URI: uri, Embedding: *embedding}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadEmbedding resolves only the embedding provider configuration. Unlike
// Load it does not require a saved connection URI, so 'diem embed' works
// before 'diem connect'.
func LoadEmbedding() (*EmbeddingConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("diem")
	v.AutomaticEnv()

	if fileExists(path) {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	cfg := &EmbeddingConfig{
		APIKey:  v.GetString("embedding_api_key"),
		BaseURL: v.GetString("embedding_base_url"),
		Model:   v.GetString("embedding_model"),
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	return cfg, nil
}

// Save persists the connection URI after checking it parses.
func Save(uri string) error {
	p := &Profile{URI: uri}
	if err := p.Validate(); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	// Merge with the existing config so a re-connect keeps other settings.
	if fileExists(path) {
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config %s", path)
		}
	}
	v.Set("uri", uri)
	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}
	return nil
}

// Remove deletes the persisted profile and reports whether one existed.
func Remove() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to remove config %s", path)
	}
	return true, nil
}

// Validate derives Driver and DSN from the connection URI.
func (p *Profile) Validate() error {
	driver, dsn, err := parseURI(p.URI)
	if err != nil {
		return err
	}
	p.Driver = driver
	p.DSN = dsn
	return nil
}

// parseURI maps a connection URI onto a driver name and its DSN form.
// Postgres URIs pass through unchanged; MariaDB/MySQL URIs are rewritten
// into the go-sql-driver address format.
func parseURI(uri string) (driver, dsn string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", errors.Wrapf(err, "invalid connection URI %q", uri)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return "postgres", uri, nil
	case "mariadb", "mysql":
		return "mysql", mysqlDSN(u), nil
	case "":
		return "", "", errors.Errorf("connection URI %q has no scheme", uri)
	}
	return "", "", errors.Errorf("unsupported database scheme %q: use mariadb:// or postgres://", u.Scheme)
}

func mysqlDSN(u *url.URL) string {
	host := u.Host
	if u.Port() == "" {
		host = u.Hostname() + ":3306"
	}
	var creds string
	if u.User != nil {
		creds = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			creds += ":" + pass
		}
		creds += "@"
	}
	dbName := ""
	if len(u.Path) > 1 {
		dbName = u.Path[1:]
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", creds, host, dbName)
	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}
	return dsn
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
