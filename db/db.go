package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"photolabel/config"
)

const mysqlDuplicateEntry = 1062

// Open connects to MySQL when a DSN is configured and falls back to SQLite otherwise
func Open(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.MySQLDSN != "" {
		log.Info("using MySQL database")
		dialector = mysql.Open(cfg.MySQLDSN)
	} else {
		log.Info("using SQLite database", zap.String("file", cfg.SQLiteFile))
		dialector = sqlite.Open(sqliteDSN(cfg.SQLiteFile))
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		Logger:                 newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// newGormLogger sends gorm's slow query and error lines to log. Lookups that find nothing are
// expected (the store returns nil for them) and are not logged.
func newGormLogger(log *zap.Logger) logger.Interface {
	std, err := zap.NewStdLogAt(log, zapcore.WarnLevel)
	if err != nil {
		std = zap.NewStdLog(log)
	}
	return logger.New(std, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// OpenMemory opens a private in-memory SQLite database restricted to one connection,
// so every query sees the same schema.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(":memory:")), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
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

func sqliteDSN(file string) string {
	return "file:" + file + "?_foreign_keys=on&_busy_timeout=5000"
}

// IsDuplicate reports whether err is a unique constraint violation raised by the database
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsMySQL is used where SQL differs between the two supported dialects
func IsMySQL(db *gorm.DB) bool {
	return db.Dialector.Name() == "mysql"
}
