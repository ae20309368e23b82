package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database named by rawURL. postgres:// and
// postgresql:// URLs use the PostgreSQL driver; sqlite://path (or
// sqlite://:memory:) opens a SQLite file.
func Open(rawURL string, verbose bool, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(rawURL)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if verbose {
		logMode = logger.Info
	}

	log.Info("connecting to database", zap.String("driver", dialector.Name()), zap.String("url", redact(rawURL)))

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logMode),
		NowFunc: Now,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Set connection pool settings
	if dialector.Name() == "sqlite" {
		// A single connection keeps :memory: databases shared across requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Info("successfully connected to database")
	return db, nil
}

// Now is the clock used for autoCreateTime columns. PostgreSQL timestamps keep
// microseconds, so a record returned from an insert matches later reads.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// HealthCheck checks if the database is accessible
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func dialectorFor(rawURL string) (gorm.Dialector, error) {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return nil, fmt.Errorf("invalid database url: missing scheme")
	}
	switch scheme {
	case "postgres", "postgresql":
		return postgres.Open(rawURL), nil
	case "sqlite":
		if rest == "" {
			rest = ":memory:"
		}
		return sqlite.Open(rest), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// redact hides the password of a database URL for logging
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	return u.Redacted()
}
