package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Messaging drivers
const (
	DriverNone   = "none"
	DriverKafka  = "kafka"
	DriverSarama = "sarama"
	DriverRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	Engine struct {
		IDStart int32 `yaml:"id_start"`
		IDMin   int32 `yaml:"id_min"`
	} `yaml:"engine"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Telemetry struct {
		Enabled     bool   `yaml:"enabled"`
		Endpoint    string `yaml:"endpoint"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"telemetry"`

	Messaging struct {
		Driver    string   `yaml:"driver"`
		Brokers   []string `yaml:"brokers"`
		Topic     string   `yaml:"topic"`
		RedisAddr string   `yaml:"redis_addr"`
		Stream    string   `yaml:"stream"`
	} `yaml:"messaging"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "pretty"
	cfg.Telemetry.Endpoint = "localhost:4317"
	cfg.Telemetry.ServiceName = "matchbook"
	cfg.Messaging.Driver = DriverNone
	cfg.Messaging.Brokers = []string{"localhost:9092"}
	cfg.Messaging.Topic = "order-events"
	cfg.Messaging.RedisAddr = "localhost:6379"
	cfg.Messaging.Stream = "matchbook:events"
	return cfg
}

// LoadConfig builds the configuration from defaults, then the YAML file
// named by -config, then any flag set explicitly in args
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("matchbook", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to config file (YAML)")
	logLevel := fs.String("log_level", "", "Log level: debug, info, warn, error")
	logFormat := fs.String("log_format", "", "Log format: json, pretty")
	telemetry := fs.Bool("telemetry", false, "Export traces and metrics over OTLP")
	otlpEndpoint := fs.String("otlp_endpoint", "", "OTLP collector address")
	driver := fs.String("messaging", "", "Event sink: none, kafka, sarama, redis")
	brokers := fs.String("brokers", "", "Comma separated Kafka brokers")
	redisAddr := fs.String("redis_addr", "", "Redis address for the stream sink")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	config := Default()

	// Load configuration from file if specified
	if *configFile != "" {
		yamlFile, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML configuration
		if err := yaml.Unmarshal(yamlFile, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log_level":
			config.Log.Level = *logLevel
		case "log_format":
			config.Log.Format = *logFormat
		case "telemetry":
			config.Telemetry.Enabled = *telemetry
		case "otlp_endpoint":
			config.Telemetry.Endpoint = *otlpEndpoint
		case "messaging":
			config.Messaging.Driver = *driver
		case "brokers":
			config.Messaging.Brokers = strings.Split(*brokers, ",")
		case "redis_addr":
			config.Messaging.RedisAddr = *redisAddr
		}
	})

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that cannot be fixed by a default
func (c *Config) Validate() error {
	switch c.Messaging.Driver {
	case DriverNone, DriverKafka, DriverSarama, DriverRedis:
	default:
		return fmt.Errorf("unknown messaging driver %q", c.Messaging.Driver)
	}
	if c.Engine.IDMin < 0 || c.Engine.IDStart < c.Engine.IDMin {
		return fmt.Errorf("invalid id range: start %d, min %d", c.Engine.IDStart, c.Engine.IDMin)
	}
	if (c.Messaging.Driver == DriverKafka || c.Messaging.Driver == DriverSarama) && len(c.Messaging.Brokers) == 0 {
		return fmt.Errorf("messaging driver %s needs at least one broker", c.Messaging.Driver)
	}
	return nil
}

// Pretty reports whether logs should use the console format
func (c *Config) Pretty() bool {
	return c.Log.Format != "json"
}
