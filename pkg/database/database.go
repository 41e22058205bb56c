package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"werise_backend/internal/config"
	"werise_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 打开 SQL 键值存储所用的数据库，driver 为 sqlite 或 mysql
func InitDB(driver string, cfg *config.DatabaseConfig, sqlitePath string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		if sqlitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
				return nil, err
			}
		}
		dialector = sqlite.Open(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Database connection established (%s)", driver)

	if err := db.AutoMigrate(&model.KVEntry{}); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")
	return db, nil
}
