package config

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/repositories"
	"github.com/anonto42/nano-midea/engagement/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the open connection of the configured driver and the Store
// built on it.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	Store    *repositories.Store
}

// InitDB connects to the configured store, prepares its schema or indexes
// and returns the wired Store.
func InitDB(ctx context.Context, cfg *Config) (*DB, error) {
	switch cfg.StoreDriver {
	case DriverMongo:
		client, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := repositories.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase)); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return &DB{Mongo: client, Store: repositories.NewMongoStore(client, cfg.MongoDatabase)}, nil

	case DriverPostgres, DriverSQLite:
		var (
			db  *gorm.DB
			err error
		)
		if cfg.StoreDriver == DriverPostgres {
			db, err = initPostgres(cfg.PostgresURL)
		} else {
			db, err = OpenSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.StoreDriver, err)
		}
		if err := repositories.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate %s schema: %w", cfg.StoreDriver, err)
		}
		return &DB{Postgres: db, Store: repositories.NewGormStore(db)}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// Maps driver unique violations to gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger: logger.NewGormLogger(logger.L(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	}
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), gormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	log := logger.L()
	log.Info().Msg("Successfully connected to PostgreSQL")
	return db, nil
}

// OpenSQLite opens a SQLite database with a single connection, so
// transactions serialize instead of failing with SQLITE_BUSY.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log := logger.L()
	log.Info().Msg("Successfully connected to MongoDB")
	return client, nil
}

// Ping checks the open connection.
func (db *DB) Ping(ctx context.Context) error {
	if db.Mongo != nil {
		return db.Mongo.Ping(ctx, readpref.Primary())
	}
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	log := logger.L()
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			log.Error().Err(err).Msg("Error getting SQL DB from GORM")
		} else if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing SQL connection")
		} else {
			log.Info().Msg("SQL connection closed")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Error closing MongoDB connection")
		} else {
			log.Info().Msg("MongoDB connection closed")
		}
	}
}
