package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
)

var DB *gorm.DB

// sqliteDriverName : sqlite3 avec un LOWER Unicode, le LOWER natif de
// SQLite ne replie que l'ASCII.
const sqliteDriverName = "sqlite3_unicode"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

func unicodeLower(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return v
	}
}

// Connect ouvre la base et remplace DB
func Connect(driver, dsn, level string) error {
	db, err := Open(driver, dsn, gormLogLevel(level))
	if err != nil {
		return err
	}
	DB = db
	logs.LogJSON("INFO", "Database connected", map[string]interface{}{
		"driver": driver,
	})
	return nil
}

// Open ne touche pas à DB, utile pour les tests
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
	default:
		return nil, fmt.Errorf("driver de base inconnu: %q", driver)
	}

	// TranslateError : les violations d'unicité remontent en gorm.ErrDuplicatedKey
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connexion %s: %w", driver, err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// une base :memory: n'existe que pour sa connexion
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("activation foreign_keys: %w", err)
		}
	}
	return db, nil
}

// Migrate applique les migrations dans l'ordre donné
func Migrate(db *gorm.DB, steps ...func(*gorm.DB) error) error {
	for _, step := range steps {
		if err := step(db); err != nil {
			return fmt.Errorf("migration: %w", err)
		}
	}
	return nil
}

// Close ferme le pool sous-jacent
func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logger.Info
	case "INFO", "WARN":
		return logger.Warn
	case "ERROR":
		return logger.Error
	default:
		return logger.Silent
	}
}
