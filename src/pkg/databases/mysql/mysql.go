package mysql

import (
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"

	"booking-service/src/pkg/log"
)

type DBInterface interface {
	GetDB() (*sqlx.DB, error)
}

type Connection struct {
	db *sqlx.DB
}

// InitConnection opens the MySQL pool from viper config. The returned
// value is usable even when the dial failed; GetDB surfaces the error on
// first use so the service can boot without the database for tooling.
func InitConnection(v *viper.Viper, logger log.Log) (*Connection, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		v.GetString("database.username"),
		v.GetString("database.password"),
		v.GetString("database.host"),
		v.GetInt("database.port"),
		v.GetString("database.name"),
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		logger.Error("mysql", fmt.Sprintf("failed to connect: %v", err), "InitConnection", "")
		return &Connection{}, err
	}

	maxOpen := v.GetInt("database.pool.max_open")
	if maxOpen <= 0 {
		maxOpen = 20
	}
	maxIdle := v.GetInt("database.pool.max_idle")
	if maxIdle <= 0 {
		maxIdle = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("mysql", "connected", "InitConnection", v.GetString("database.host"))
	return &Connection{db: db}, nil
}

func (c *Connection) GetDB() (*sqlx.DB, error) {
	if c == nil || c.db == nil {
		return nil, errors.New("mysql connection is not initialized")
	}
	return c.db, nil
}
