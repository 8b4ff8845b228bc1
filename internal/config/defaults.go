package config

// DefaultDatabasePath is where the registry database lives unless configured.
const DefaultDatabasePath = "/usr/local/var/kensho/data/registry.db"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = DefaultDatabasePath
	}
	if cfg.Verifier.Mode == "" {
		cfg.Verifier.Mode = "http"
	}
	if cfg.Verifier.Endpoint == "" {
		cfg.Verifier.Endpoint = "http://localhost:9090"
	}
	if cfg.Verifier.TimeoutSeconds == 0 {
		cfg.Verifier.TimeoutSeconds = 30
	}
	if cfg.Verifier.StaticResult == "" {
		cfg.Verifier.StaticResult = "valid"
	}
}
