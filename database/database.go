package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lms/config"
	"lms/models"
)

const (
	maxRetries    = 3
	retryInterval = 5 * time.Second
)

// Database wraps the GORM connection so it can be constructed in main and
// handed to the controllers instead of living as package state.
type Database struct {
	Db      *gorm.DB
	dialect string
	name    string
}

// Status reports the connection state for the health endpoint.
type Status struct {
	Connected bool   `json:"connected"`
	Dialect   string `json:"dialect"`
	Name      string `json:"name"`
}

// New opens the configured database, retrying the initial connection, sets up
// the pool and runs migrations.
func New(cfg *config.Config) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for attempt := 1; ; attempt++ {
		db, err = gorm.Open(dialector, &gorm.Config{})
		if err == nil {
			break
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("connect after %d attempts: %w", attempt, err)
		}
		log.Printf("Database connection failed (attempt %d): %v. Retrying in %s...", attempt, err, retryInterval)
		time.Sleep(retryInterval)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &Database{Db: db, dialect: cfg.DBDriver, name: cfg.DBName}, nil
}

// NewForTesting opens a private in-memory sqlite database with migrations
// applied.
func NewForTesting() (*Database, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		return nil, err
	}
	return &Database{Db: db, dialect: "sqlite", name: ":memory:"}, nil
}

func openDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lecture{},
		&models.Enrollment{},
		&models.CourseProgress{},
		&models.LectureProgress{},
		&models.CoursePurchase{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Status pings the database and reports connectivity.
func (d *Database) Status() Status {
	s := Status{Dialect: d.dialect, Name: d.name}
	sqlDB, err := d.Db.DB()
	if err != nil {
		return s
	}
	s.Connected = sqlDB.Ping() == nil
	return s
}
