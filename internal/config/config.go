package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shoe-catalog-service/internal/models"
)

// insecureJWTSecret is the placeholder shipped in example env files
const insecureJWTSecret = "your-secret-key"

type Config struct {
	// Database
	DBDriver         string
	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	SQLitePath       string
	DBConnectTimeout time.Duration
	DBQueryTimeout   time.Duration

	// Redis
	RedisURL string

	// NATS
	NATSURL string

	// Server
	Port        string
	Environment string

	// JWT
	JWTSecret string

	// Commerce platform Admin API
	ShopDomain      string
	ShopAccessToken string
	ShopAPIVersion  string

	// Serve the fixture listing when the store is unreachable
	FallbackEnabled bool
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	fallbackEnabled, _ := strconv.ParseBool(getEnv("FALLBACK_ENABLED", "true"))

	return &Config{
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           dbPort,
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "shoe_catalog"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		SQLitePath:       getEnv("SQLITE_PATH", "catalog.db"),
		DBConnectTimeout: getDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		DBQueryTimeout:   getDuration("DB_QUERY_TIMEOUT", 5*time.Second),

		RedisURL: getEnv("REDIS_URL", ""),
		NATSURL:  getEnv("NATS_URL", ""),

		Port:        getEnv("PORT", "8087"),
		Environment: getEnv("ENVIRONMENT", "development"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		ShopDomain:      getEnv("SHOP_DOMAIN", ""),
		ShopAccessToken: getEnv("SHOP_ACCESS_TOKEN", ""),
		ShopAPIVersion:  getEnv("SHOP_API_VERSION", "2024-01"),

		FallbackEnabled: fallbackEnabled,
	}
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesDevelopmentAuth reports whether API requests skip token verification
func (c *Config) UsesDevelopmentAuth() bool {
	return c.Environment == "development"
}

// Validate rejects settings the service must not start with. Outside
// development every API request is verified against JWTSecret, so it must be
// set and must not be the published placeholder.
func (c *Config) Validate() error {
	if c.UsesDevelopmentAuth() {
		return nil
	}
	if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == insecureJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set to a non-default value when ENVIRONMENT=%s", c.Environment)
	}
	return nil
}

// Dialector returns the gorm dialector for the configured driver
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.DBDriver {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, int(c.DBConnectTimeout.Seconds()))
		return postgres.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(sqliteDSN(c.SQLitePath)), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// OpenDB opens the catalog database without contacting it. Connections are
// made on first use, so a store that is down at startup does not stop the
// service; see SchemaMigrator for the deferred migration.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	var logLevel logger.LogLevel
	if cfg.IsProduction() {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(logLevel),
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.DBDriver == "sqlite" || cfg.DBDriver == "sqlite3" {
		// single writer; sqlite serializes anyway
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// InitDB opens the catalog database and migrates the schema, failing when
// the store cannot be reached
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the catalog tables
func Migrate(db *gorm.DB) error {
	logrus.Debug("Running auto-migrations...")
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Variant{},
		&models.Image{},
		&models.Collection{},
		&models.SizeChart{},
	); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "does not exist") && strings.Contains(errStr, "constraint") {
			logrus.WithError(err).Warn("Migration constraint warning (safe to ignore)")
			return nil
		}
		return fmt.Errorf("failed to run auto-migrations: %w", err)
	}
	logrus.Debug("Auto-migrations completed successfully")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("750ms") or whole seconds ("5")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
