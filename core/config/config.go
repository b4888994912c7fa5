package config

import (
	"reflect"
	"strings"

	"dirsync/core/directory"
	"dirsync/core/local"
	"dirsync/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SyncConfig holds the knobs of the reconciliation run itself.
type SyncConfig struct {
	// UserPattern restricts the harvest to user names matching this glob.
	// Empty means no restriction.
	UserPattern string `mapstructure:"user_pattern" default:""`
	// GroupPattern restricts the harvest to group names matching this glob.
	GroupPattern string `mapstructure:"group_pattern" default:""`
}

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Directory holds configuration for the directory connection and searches.
	Directory directory.Config `mapstructure:"directory"`
	// Local holds configuration for the local account store.
	Local local.Config `mapstructure:"local"`
	// Sync holds configuration for the reconciliation run.
	Sync SyncConfig `mapstructure:"sync"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. DIRECTORY_BASE_DN -> directory.base_dn)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
