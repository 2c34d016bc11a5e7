// config/config.go
/* Package config locates and reads the payload database connection parameters and the HTTP client
settings. Connection parameters come from a small JSON file looked up by name in a list of search paths;
client settings come from XPLOAD_* environment variables, optionally provided through .env files. */
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvDir prefixes every search path when set.
	EnvDir = "XPLOAD_DIR"
	// EnvConfigName names the config file looked up when no name is given.
	EnvConfigName = "XPLOAD_CONFIG_NAME"
	// EnvSearchPaths overrides DefaultSearchPaths, separated by os.PathListSeparator.
	EnvSearchPaths = "XPLOAD_CONFIG_SEARCH_PATHS"

	DefaultConfigName = "test"
	configExtension   = ".json"
)

// DefaultSearchPaths are the directories searched for config files, in order.
var DefaultSearchPaths = []string{".", "config"}

// ErrConfigNotFound is returned when no readable config file exists in any search path.
var ErrConfigNotFound = errors.New("config file not found")

// DBConfig holds the payload database connection parameters.
type DBConfig struct {
	Host    string `mapstructure:"host" json:"host"`
	Port    string `mapstructure:"port" json:"port"`
	APIRoot string `mapstructure:"apiroot" json:"apiroot"`
	Path    string `mapstructure:"path" json:"path"`

	// Source is the file the parameters were read from.
	Source string `mapstructure:"-" json:"-"`
}

// URL returns the base URL of the database REST API.
func (c DBConfig) URL() string {
	return "http://" + c.Host + ":" + c.Port + c.APIRoot
}

// SearchPaths returns the directories Locate searches, in order. With XPLOAD_DIR set, every path
// prefixed with it comes first, followed by the unprefixed paths.
func SearchPaths() []string {
	paths := DefaultSearchPaths
	if env := os.Getenv(EnvSearchPaths); env != "" {
		paths = nil
		for _, p := range filepath.SplitList(env) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}

	dir := strings.TrimRight(os.Getenv(EnvDir), "/")
	if dir == "" {
		return append([]string(nil), paths...)
	}

	searchPaths := make([]string, 0, 2*len(paths))
	for _, p := range paths {
		searchPaths = append(searchPaths, dir+"/"+p)
	}
	return append(searchPaths, paths...)
}

// Locate finds and reads the database config called name. A name containing "." or "/" is read as a
// path. Otherwise <name>.json, or <XPLOAD_CONFIG_NAME>.json when name is empty, is looked up in
// SearchPaths and the first file that parses wins.
func Locate(name string) (DBConfig, error) {
	if strings.ContainsAny(name, "./") {
		return ReadDBConfig(name)
	}

	if name == "" {
		name = os.Getenv(EnvConfigName)
		if name == "" {
			name = DefaultConfigName
		}
	}
	configFile := name + configExtension

	searchPaths := SearchPaths()
	for _, dir := range searchPaths {
		cfg, err := ReadDBConfig(filepath.Join(dir, configFile))
		if err == nil {
			return cfg, nil
		}
	}

	return DBConfig{}, fmt.Errorf("%w: cannot find %s in %v", ErrConfigNotFound, configFile, searchPaths)
}

// ReadDBConfig reads the JSON config file at path. The file must at least name a host and a port.
func ReadDBConfig(path string) (DBConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DBConfig{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return DBConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg DBConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return DBConfig{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Host == "" || cfg.Port == "" {
		return DBConfig{}, fmt.Errorf("config %s: host and port are required", path)
	}

	cfg.Source = path
	return cfg, nil
}
