// Package config provides configuration for the application using
// command-line flags, environment variables, and an optional JSON config
// file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"addr" env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// SecretKey signs bearer tokens.
	SecretKey string `json:"secret_key" env:"SECRET_KEY"`

	// TokenTTL is the bearer token validity window.
	TokenTTL time.Duration `json:"token_ttl" env:"TOKEN_TTL"`

	// ModelURL is the predict endpoint of the model server.
	ModelURL string `json:"model_url" env:"MODEL_URL"`

	// ClassLabels are the burn severity labels ordered by model output
	// index, comma separated.
	ClassLabels string `json:"class_labels" env:"CLASS_LABELS"`

	// ExpectedAccuracy is the confidence threshold below which predictions
	// are logged as warnings.
	ExpectedAccuracy float64 `json:"expected_accuracy" env:"EXPECTED_ACCURACY"`

	// QueueSize bounds the background persistence queue.
	QueueSize int `json:"queue_size" env:"QUEUE_SIZE"`

	// LogLevel sets the logging verbosity.
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// Config is the path to the config file.
	Config string `json:"-" env:"CONFIG"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.SecretKey, "s", "", "token signing secret")
	flag.DurationVar(&options.TokenTTL, "ttl", 30*time.Minute, "token validity window")
	flag.StringVar(&options.ModelURL, "m", "http://localhost:8501/v1/models/burn_classifier:predict", "model server predict endpoint")
	flag.StringVar(&options.ClassLabels, "labels", "1st degree burn,2nd degree burn,3rd degree burn", "class labels, comma separated")
	flag.Float64Var(&options.ExpectedAccuracy, "accuracy", 0.80, "expected prediction accuracy threshold")
	flag.IntVar(&options.QueueSize, "q", 128, "background persistence queue size")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, overlays the optional JSON config
// file, and finally applies environment variables. It returns a pointer to
// the Options struct containing the resolved configuration values.
func Parse() *Options {
	flag.Parse()

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

	// Environment variables take precedence over flags and file values.
	if err := env.Parse(options); err != nil {
		log.Fatalf("error while parsing environment: %v", err)
	}

	return options
}

// Labels splits the configured class labels into a slice.
func (o *Options) Labels() []string {
	parts := strings.Split(o.ClassLabels, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			labels = append(labels, t)
		}
	}
	return labels
}
