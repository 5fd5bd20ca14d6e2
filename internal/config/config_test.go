package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: authgate
server:
  host: 127.0.0.1
  port: 8080
auth:
  issuer: authgate
  salt_rounds: 10
database:
  host: localhost
  port: 5432
  user: authgate
  password: secret
  dbname: authgate
  sslmode: disable
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.App.Name != "authgate" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "authgate")
	}
	if got := cfg.Server.Address(); got != "127.0.0.1:8080" {
		t.Errorf("Server.Address() = %q, want %q", got, "127.0.0.1:8080")
	}
	if cfg.Auth.SaltRounds != 10 {
		t.Errorf("Auth.SaltRounds = %d, want 10", cfg.Auth.SaltRounds)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_SaltRoundsDefault(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: authgate
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Auth.SaltRounds != DefaultSaltRounds {
		t.Errorf("Auth.SaltRounds = %d, want default %d", cfg.Auth.SaltRounds, DefaultSaltRounds)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Errorf("Load() expected error for invalid YAML")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "plain values",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "authgate",
				Password: "secret",
				DBName:   "authgate",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=authgate password=secret dbname=authgate sslmode=disable",
		},
		{
			name: "password with spaces is quoted",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "authgate",
				Password: "top secret",
				DBName:   "authgate",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=authgate password='top secret' dbname=authgate sslmode=disable",
		},
		{
			name: "single quote is escaped",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "authgate",
				Password: "it's",
				DBName:   "authgate",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=authgate password='it''s' dbname=authgate sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvironment_Validate(t *testing.T) {
	longSecret := strings.Repeat("a", 32)

	tests := []struct {
		name    string
		env     Environment
		wantErr bool
	}{
		{
			name: "valid secrets",
			env: Environment{
				AccessSecret:  longSecret,
				RefreshSecret: longSecret,
			},
			wantErr: false,
		},
		{
			name: "missing access secret",
			env: Environment{
				RefreshSecret: longSecret,
			},
			wantErr: true,
		},
		{
			name: "short refresh secret",
			env: Environment{
				AccessSecret:  longSecret,
				RefreshSecret: "short",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.env.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("JWT_REFRESH_EXPIRY", "")

	env := LoadEnv()

	if env.Environment != EnvironmentDevelopment {
		t.Errorf("Environment = %q, want %q", env.Environment, EnvironmentDevelopment)
	}
	if env.AccessExpiry != DefaultAccessExpiry {
		t.Errorf("AccessExpiry = %q, want %q", env.AccessExpiry, DefaultAccessExpiry)
	}
	if env.RefreshExpiry != DefaultRefreshExpiry {
		t.Errorf("RefreshExpiry = %q, want %q", env.RefreshExpiry, DefaultRefreshExpiry)
	}
}

func TestLoadEnv_InvalidEnvironmentFallsBack(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")

	env := LoadEnv()

	if env.Environment != EnvironmentDevelopment {
		t.Errorf("Environment = %q, want fallback %q", env.Environment, EnvironmentDevelopment)
	}
}
