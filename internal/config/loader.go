package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/civica/electoral/internal/db"
)

// Server holds HTTP server configuration.
type Server struct {
	Addr           string
	AllowedOrigins []string
	AdminToken     string
	ExportDir      string
	MigrationsPath string
}

// Config is the full application configuration.
type Config struct {
	Database db.Config
	Server   Server
}

// Load reads config.yaml from configPath with environment overrides.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Database: db.DefaultConfig(),
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			MigrationsPath: "./migrations",
		},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()          // allow environment overrides
	v.SetEnvPrefix("ELECTORAL") // map env vars like ELECTORAL_DATABASE_HOST

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("server.admin_token")
	v.BindEnv("server.export_dir")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Use defaults + env.
		log.Info().Msg("no config.yaml found, using defaults and env vars")
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("server.admin_token") {
		cfg.Server.AdminToken = v.GetString("server.admin_token")
	}
	if v.IsSet("server.export_dir") {
		cfg.Server.ExportDir = v.GetString("server.export_dir")
	}
	if v.IsSet("server.migrations_path") {
		cfg.Server.MigrationsPath = v.GetString("server.migrations_path")
	}

	return cfg, nil
}
