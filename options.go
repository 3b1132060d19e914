package mysqlstore

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/beandb/mysqlstore/naming"
)

// Defaults applied by Connect and LoadOptions.
const (
	DefaultPort        = 3306
	DefaultConnections = 4
	DefaultKeyField    = "id"
)

// Options configure a datasource. Exactly one identifier-conversion policy is
// active at a time; precedence is custom > disabled > default.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string

	// Connections bounds the connection pool shared by all in-flight
	// operations. Defaults to DefaultConnections.
	Connections int

	// KeyField is the application-side name of the primary-key field.
	// Defaults to DefaultKeyField.
	KeyField string

	// Debug receives the value-substituted text of every statement before it
	// executes. Observability only: execution always uses the parameterized
	// form. Defaults to a no-op.
	Debug func(string)

	// DisableNameConversion switches identifier conversion off entirely.
	DisableNameConversion bool

	// NameConversion overrides the conversion policy. Takes precedence over
	// DisableNameConversion.
	NameConversion naming.Conversion
}

// conversion resolves the active identifier-conversion policy.
func (o Options) conversion() naming.Conversion {
	if o.NameConversion != nil {
		return o.NameConversion
	}
	if o.DisableNameConversion {
		return naming.Identity{}
	}
	return naming.Default{}
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = "127.0.0.1"
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.Connections <= 0 {
		o.Connections = DefaultConnections
	}
	if o.KeyField == "" {
		o.KeyField = DefaultKeyField
	}
	if o.Debug == nil {
		o.Debug = func(string) {}
	}
	return o
}

// LoadOptions reads connection options from the environment and an optional
// .mysqlstore.yaml in the working directory or the home directory.
// Environment variables use the MYSQLSTORE_ prefix (MYSQLSTORE_HOST,
// MYSQLSTORE_PORT, ...); a .env / .env.local next to the process is loaded
// first, .env.local taking priority.
func LoadOptions() (Options, error) {
	v := viper.New()
	v.SetConfigName(".mysqlstore")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "mysqlstore"))
	}

	v.SetEnvPrefix("MYSQLSTORE")
	v.AutomaticEnv()

	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("connections", DefaultConnections)

	// Missing config file is fine; env alone is a complete configuration.
	_ = v.ReadInConfig()

	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := os.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	return Options{
		Host:        v.GetString("host"),
		Port:        v.GetInt("port"),
		User:        v.GetString("user"),
		Password:    v.GetString("password"),
		Database:    v.GetString("database"),
		Connections: v.GetInt("connections"),
	}, nil
}
