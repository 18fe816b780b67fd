// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// EncryptionKey is the secret from which the field-encryption key
	// is derived. The process refuses to start without it.
	EncryptionKey string `json:"-"`

	// DatabaseSSLDisable turns off TLS on the database connection for
	// non-strict environments.
	DatabaseSSLDisable bool

	// Environment names the deployment environment; "production"
	// enables the Secure attribute on session cookies.
	Environment string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.Environment, "env", "development", "deployment environment")
	flag.BoolVar(&options.DatabaseSSLDisable, "no-db-ssl", false, "disable TLS on the database connection")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		options.DatabaseDSN = databaseURL
	}

	if key := os.Getenv("ENCRYPTION_KEY"); key != "" {
		options.EncryptionKey = key
	}

	if ssl := os.Getenv("DATABASE_SSL"); ssl == "false" {
		options.DatabaseSSLDisable = true
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		options.Environment = env
	}

	return options
}
