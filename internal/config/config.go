package config

import (
	"ChordRing/internal/logger"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

type TelemetryConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
}

type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Active   bool             `yaml:"active"`
	Level    string           `yaml:"level"`
	Encoding string           `yaml:"encoding"`
	Mode     string           `yaml:"mode"`
	File     FileLoggerConfig `yaml:"file"`
}

// RingConfig carries the configuration surface enumerated in the core
// specification: identifier width, successor cache size, retry budget, and
// the period of each maintenance loop.
type RingConfig struct {
	Bits                  int           `yaml:"bits"`
	SuccessorCacheSize    int           `yaml:"successorCacheSize"`
	RetryBudget           int           `yaml:"retryBudget"`
	StabilizeSuccessors   time.Duration `yaml:"stabilizeSuccessorsInterval"`
	StabilizePredecessors time.Duration `yaml:"stabilizePredecessorsInterval"`
	FixFingers            time.Duration `yaml:"fixFingersInterval"`
	Rejoin                time.Duration `yaml:"rejoinInterval"`
	ReplicateStorage      time.Duration `yaml:"replicateStorageInterval"`
	FailureTimeout        time.Duration `yaml:"failureTimeout"`
}

// Route53Config names the AWS Route53 hosted zone used for SRV-record-based
// peer discovery and self-registration.
type Route53Config struct {
	HostedZoneID string `yaml:"hostedZoneId"`
	DomainSuffix string `yaml:"domainSuffix"`
	TTL          int64  `yaml:"ttl"`
}

type RegisterConfig struct {
	Enabled bool          `yaml:"enabled"`
	Route53 Route53Config `yaml:"route53"`
}

// BootstrapConfig controls how a freshly started node finds a seed peer to
// Join against. Mode selects the discovery strategy: "static" (a fixed peer
// list), "route53" (SRV records in an AWS-hosted zone), "dns" (ad-hoc SRV or
// A/AAAA lookup against a resolver), or "init" (this is the first node,
// create a singleton ring).
type BootstrapConfig struct {
	Mode     string         `yaml:"mode"`
	Peers    []string       `yaml:"peers"`
	DNSName  string         `yaml:"dnsName"`
	SRV      bool           `yaml:"srv"`
	Service  string         `yaml:"service"`
	Proto    string         `yaml:"proto"`
	Resolver string         `yaml:"resolver"`
	Port     int            `yaml:"port"`
	Register RegisterConfig `yaml:"register"`
}

// StorageConfig selects the Store backend and its parameters.
type StorageConfig struct {
	Backend  string `yaml:"backend"` // "memory" | "file"
	FileRoot string `yaml:"fileRoot"`
}

type DHTConfig struct {
	Ring      RingConfig      `yaml:"ring"`
	Storage   StorageConfig   `yaml:"storage"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Mode      string          `yaml:"mode"` // "public" | "private" network interface selection
}

type NodeConfig struct {
	Id   string `yaml:"id"`
	Bind string `yaml:"bind"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	DHT       DHTConfig       `yaml:"dht"`
	Node      NodeConfig      `yaml:"node"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoadConfig loads the configuration from a YAML file at the given path.
//
// This function performs only syntactic parsing. Call cfg.ValidateConfig()
// after loading (and after ApplyEnvOverrides) to check structural validity.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Supported overrides:
//
//	NODE_ID, NODE_BIND, NODE_HOST, NODE_PORT
//	BOOTSTRAP_MODE, BOOTSTRAP_DNSNAME, BOOTSTRAP_SRV, BOOTSTRAP_PORT, BOOTSTRAP_PEERS
//	REGISTER_ENABLED, REGISTER_ZONE_ID, REGISTER_SUFFIX, REGISTER_TTL
//	TRACE_ENABLED, TRACE_EXPORTER, TRACE_ENDPOINT
//	LOGGER_ENABLED, LOGGER_LEVEL, LOGGER_ENCODING, LOGGER_MODE, LOGGER_FILE_PATH
//
// Integer fields are parsed with strconv and invalid values are ignored.
// Boolean fields accept "true", "1", or "yes" (case-insensitive) as true.
// List fields are split on commas.
func (cfg *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NODE_ID"); v != "" {
		cfg.Node.Id = v
	}
	if v := os.Getenv("NODE_BIND"); v != "" {
		cfg.Node.Bind = v
	} else if cfg.Node.Bind == "" {
		cfg.Node.Bind = "0.0.0.0"
	}
	if v := os.Getenv("NODE_HOST"); v != "" {
		cfg.Node.Host = v
	}
	if v := os.Getenv("NODE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Node.Port = port
		}
	}

	if v := os.Getenv("BOOTSTRAP_MODE"); v != "" {
		cfg.DHT.Bootstrap.Mode = v
	}
	if v := os.Getenv("BOOTSTRAP_DNSNAME"); v != "" {
		cfg.DHT.Bootstrap.DNSName = v
	}
	if v := os.Getenv("BOOTSTRAP_SRV"); v != "" {
		cfg.DHT.Bootstrap.SRV = parseBool(v)
	}
	if v := os.Getenv("BOOTSTRAP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DHT.Bootstrap.Port = port
		}
	}
	if v := os.Getenv("BOOTSTRAP_PEERS"); v != "" {
		cfg.DHT.Bootstrap.Peers = strings.Split(v, ",")
	}
	if v := os.Getenv("REGISTER_ENABLED"); v != "" {
		cfg.DHT.Bootstrap.Register.Enabled = parseBool(v)
	}
	if v := os.Getenv("REGISTER_ZONE_ID"); v != "" {
		cfg.DHT.Bootstrap.Register.Route53.HostedZoneID = v
	}
	if v := os.Getenv("REGISTER_SUFFIX"); v != "" {
		cfg.DHT.Bootstrap.Register.Route53.DomainSuffix = v
	}
	if v := os.Getenv("REGISTER_TTL"); v != "" {
		if ttl, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.DHT.Bootstrap.Register.Route53.TTL = ttl
		}
	}
	if v := os.Getenv("TRACE_ENABLED"); v != "" {
		cfg.Telemetry.Tracing.Enabled = parseBool(v)
	}
	if v := os.Getenv("TRACE_EXPORTER"); v != "" {
		cfg.Telemetry.Tracing.Exporter = v
	}
	if v := os.Getenv("TRACE_ENDPOINT"); v != "" {
		cfg.Telemetry.Tracing.Endpoint = v
	}
	if v := os.Getenv("LOGGER_ENABLED"); v != "" {
		cfg.Logger.Active = parseBool(v)
	}
	if v := os.Getenv("LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("LOGGER_ENCODING"); v != "" {
		cfg.Logger.Encoding = v
	}
	if v := os.Getenv("LOGGER_MODE"); v != "" {
		cfg.Logger.Mode = v
	}
	if v := os.Getenv("LOGGER_FILE_PATH"); v != "" {
		cfg.Logger.File.Path = v
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}

// ValidateConfig performs structural validation of the loaded configuration.
// All detected issues are accumulated and returned as a single error.
func (cfg *Config) ValidateConfig() error {
	var errs []string

	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.level: %s", cfg.Logger.Level))
	}
	switch cfg.Logger.Encoding {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.encoding: %s", cfg.Logger.Encoding))
	}
	switch cfg.Logger.Mode {
	case "stdout":
	case "file":
		if cfg.Logger.File.Path == "" {
			errs = append(errs, "logger.file.path is required when mode=file")
		}
		if cfg.Logger.File.MaxSize < 0 || cfg.Logger.File.MaxBackups < 0 || cfg.Logger.File.MaxAge < 0 {
			errs = append(errs, "logger.file.* values must be non-negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.mode: %s", cfg.Logger.Mode))
	}

	// --- Ring ---
	if cfg.DHT.Ring.Bits <= 0 {
		errs = append(errs, "dht.ring.bits must be > 0")
	}
	switch cfg.DHT.Mode {
	case "public", "private":
	default:
		errs = append(errs, fmt.Sprintf("invalid dht.mode: %s", cfg.DHT.Mode))
	}
	if cfg.DHT.Ring.SuccessorCacheSize <= 0 {
		errs = append(errs, "dht.ring.successorCacheSize must be > 0")
	}
	if cfg.DHT.Ring.RetryBudget < 0 {
		errs = append(errs, "dht.ring.retryBudget must be >= 0")
	}
	for name, d := range map[string]time.Duration{
		"stabilizeSuccessorsInterval":   cfg.DHT.Ring.StabilizeSuccessors,
		"stabilizePredecessorsInterval": cfg.DHT.Ring.StabilizePredecessors,
		"fixFingersInterval":            cfg.DHT.Ring.FixFingers,
		"rejoinInterval":                cfg.DHT.Ring.Rejoin,
		"replicateStorageInterval":      cfg.DHT.Ring.ReplicateStorage,
		"failureTimeout":                cfg.DHT.Ring.FailureTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("dht.ring.%s must be > 0", name))
		}
	}

	// --- Storage ---
	switch cfg.DHT.Storage.Backend {
	case "memory":
	case "file":
		if cfg.DHT.Storage.FileRoot == "" {
			errs = append(errs, "dht.storage.fileRoot is required when backend=file")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid dht.storage.backend: %s", cfg.DHT.Storage.Backend))
	}

	// --- Bootstrap ---
	b := cfg.DHT.Bootstrap
	switch b.Mode {
	case "route53":
		if b.Register.Route53.HostedZoneID == "" {
			errs = append(errs, "bootstrap.register.route53.hostedZoneId is required in mode=route53")
		}
		if b.Register.Route53.DomainSuffix == "" {
			errs = append(errs, "bootstrap.register.route53.domainSuffix is required in mode=route53")
		}
	case "dns":
		if b.DNSName == "" {
			errs = append(errs, "bootstrap.dnsName is required in mode=dns")
		}
		if !b.SRV && b.Port <= 0 {
			errs = append(errs, "bootstrap.port must be > 0 when using A/AAAA (srv=false)")
		}
	case "static":
		for _, p := range b.Peers {
			if _, _, err := net.SplitHostPort(p); err != nil {
				errs = append(errs, fmt.Sprintf("invalid peer address %q in bootstrap.peers: %v", p, err))
			}
		}
	case "init":
		// first node of the ring, no extra constraints
	default:
		errs = append(errs, fmt.Sprintf("invalid bootstrap.mode: %s (must be route53, dns, static or init)", b.Mode))
	}
	if b.Register.Enabled {
		if b.Register.Route53.HostedZoneID == "" {
			errs = append(errs, "bootstrap.register.route53.hostedZoneId is required when register.enabled=true")
		}
		if b.Register.Route53.DomainSuffix == "" {
			errs = append(errs, "bootstrap.register.route53.domainSuffix is required when register.enabled=true")
		}
		if b.Register.Route53.TTL <= 0 {
			errs = append(errs, "bootstrap.register.route53.ttl must be > 0 when register.enabled=true")
		}
	}

	// --- Node ---
	if cfg.Node.Port < 0 || cfg.Node.Port > 65535 {
		errs = append(errs, fmt.Sprintf("node.port must be in [0,65535], got %d", cfg.Node.Port))
	}

	// --- Telemetry ---
	if cfg.Telemetry.Tracing.Enabled {
		switch cfg.Telemetry.Tracing.Exporter {
		case "stdout", "otlp":
		default:
			errs = append(errs, fmt.Sprintf("invalid telemetry.tracing.exporter: %s", cfg.Telemetry.Tracing.Exporter))
		}
		if cfg.Telemetry.Tracing.Endpoint == "" && cfg.Telemetry.Tracing.Exporter == "otlp" {
			errs = append(errs, "telemetry.tracing.endpoint is required when exporter=otlp")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogConfig prints the loaded configuration at DEBUG level, useful for
// debugging startup issues and verifying that the configuration file was
// parsed as expected.
func (cfg *Config) LogConfig(lgr logger.Logger) {
	lgr.Debug("Loaded configuration",
		logger.F("logger.active", cfg.Logger.Active),
		logger.F("logger.level", cfg.Logger.Level),
		logger.F("logger.encoding", cfg.Logger.Encoding),
		logger.F("logger.mode", cfg.Logger.Mode),
		logger.F("logger.file.path", cfg.Logger.File.Path),
		logger.F("logger.file.maxSizeMB", cfg.Logger.File.MaxSize),
		logger.F("logger.file.maxBackups", cfg.Logger.File.MaxBackups),
		logger.F("logger.file.maxAgeDays", cfg.Logger.File.MaxAge),
		logger.F("logger.file.compress", cfg.Logger.File.Compress),

		logger.F("dht.mode", cfg.DHT.Mode),
		logger.F("dht.ring.bits", cfg.DHT.Ring.Bits),
		logger.F("dht.ring.successorCacheSize", cfg.DHT.Ring.SuccessorCacheSize),
		logger.F("dht.ring.retryBudget", cfg.DHT.Ring.RetryBudget),
		logger.F("dht.ring.stabilizeSuccessorsMs", cfg.DHT.Ring.StabilizeSuccessors.Milliseconds()),
		logger.F("dht.ring.stabilizePredecessorsMs", cfg.DHT.Ring.StabilizePredecessors.Milliseconds()),
		logger.F("dht.ring.fixFingersMs", cfg.DHT.Ring.FixFingers.Milliseconds()),
		logger.F("dht.ring.rejoinMs", cfg.DHT.Ring.Rejoin.Milliseconds()),
		logger.F("dht.ring.replicateStorageMs", cfg.DHT.Ring.ReplicateStorage.Milliseconds()),
		logger.F("dht.ring.failureTimeoutMs", cfg.DHT.Ring.FailureTimeout.Milliseconds()),

		logger.F("dht.storage.backend", cfg.DHT.Storage.Backend),
		logger.F("dht.storage.fileRoot", cfg.DHT.Storage.FileRoot),

		logger.F("dht.bootstrap.mode", cfg.DHT.Bootstrap.Mode),
		logger.F("dht.bootstrap.peers", cfg.DHT.Bootstrap.Peers),
		logger.F("dht.bootstrap.dnsName", cfg.DHT.Bootstrap.DNSName),
		logger.F("dht.bootstrap.srv", cfg.DHT.Bootstrap.SRV),
		logger.F("dht.bootstrap.port", cfg.DHT.Bootstrap.Port),

		logger.F("dht.bootstrap.register.enabled", cfg.DHT.Bootstrap.Register.Enabled),
		logger.F("dht.bootstrap.register.route53.hostedZoneId", cfg.DHT.Bootstrap.Register.Route53.HostedZoneID),
		logger.F("dht.bootstrap.register.route53.domainSuffix", cfg.DHT.Bootstrap.Register.Route53.DomainSuffix),
		logger.F("dht.bootstrap.register.route53.ttl", cfg.DHT.Bootstrap.Register.Route53.TTL),

		logger.F("node.id", cfg.Node.Id),
		logger.F("node.bind", cfg.Node.Bind),
		logger.F("node.host", cfg.Node.Host),
		logger.F("node.port", cfg.Node.Port),

		logger.F("telemetry.tracing.enabled", cfg.Telemetry.Tracing.Enabled),
		logger.F("telemetry.tracing.exporter", cfg.Telemetry.Tracing.Exporter),
		logger.F("telemetry.tracing.endpoint", cfg.Telemetry.Tracing.Endpoint),
	)
}
