package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/glebarez/sqlite"
	"github.com/inscription-c/ordinscribe/constants"
	inscLog "github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/pkg/errors"
	gormMysqlDriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is a struct that embeds gorm.DB to provide additional database functionality.
type DB struct {
	*gorm.DB
}

// DBOptions is a struct that holds the configuration options for the database.
type DBOptions struct {
	driver     string
	addr       string
	user       string
	password   string
	dbName     string
	dataDir    string
	sqliteFile string

	log               btclog.Logger
	autoMigrateTables []interface{}
}

// DBOption is a function type that modifies DBOptions.
type DBOption func(*DBOptions)

// WithDriver returns a DBOption that selects the database driver, mysql or sqlite.
func WithDriver(driver string) DBOption {
	return func(o *DBOptions) {
		o.driver = driver
	}
}

// WithAddr returns a DBOption that sets the address of the database.
func WithAddr(addr string) DBOption {
	return func(o *DBOptions) {
		o.addr = addr
	}
}

// WithUser returns a DBOption that sets the user of the database.
func WithUser(user string) DBOption {
	return func(o *DBOptions) {
		o.user = user
	}
}

// WithPassword returns a DBOption that sets the password of the database.
func WithPassword(password string) DBOption {
	return func(o *DBOptions) {
		o.password = password
	}
}

// WithDBName returns a DBOption that sets the name of the database.
func WithDBName(dbName string) DBOption {
	return func(o *DBOptions) {
		o.dbName = dbName
	}
}

// WithDataDir returns a DBOption that sets the directory of the sqlite database file.
func WithDataDir(dir string) DBOption {
	return func(o *DBOptions) {
		o.dataDir = dir
	}
}

// WithSqliteFile returns a DBOption that sets the sqlite DSN directly,
// e.g. "file:ledger?mode=memory&cache=shared". It takes precedence over WithDataDir.
func WithSqliteFile(file string) DBOption {
	return func(o *DBOptions) {
		o.sqliteFile = file
	}
}

// WithLogger returns a DBOption that sets the logger of the database.
func WithLogger(log btclog.Logger) DBOption {
	return func(o *DBOptions) {
		o.log = log
	}
}

// WithAutoMigrateTables returns a DBOption that sets the tables to be auto migrated in the database.
func WithAutoMigrateTables(tables ...interface{}) DBOption {
	return func(o *DBOptions) {
		o.autoMigrateTables = tables
	}
}

// Transaction is a method on DB that executes a function within a database transaction.
func (d *DB) Transaction(fn func(tx *DB) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		d := &DB{DB: tx}
		return fn(d)
	})
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDB is a function that creates a new DB instance with the provided options.
func NewDB(opts ...DBOption) (*DB, error) {
	options := &DBOptions{
		driver: constants.DefaultDBDriver,
		dbName: constants.DefaultDBName,
		log:    inscLog.Gorm,
	}
	for _, opt := range opts {
		opt(options)
	}

	var db *gorm.DB
	var err error
	switch options.driver {
	case constants.DBDriverMysql:
		db, err = openMysql(options)
	case constants.DBDriverSqlite:
		db, err = openSqlite(options)
	default:
		return nil, fmt.Errorf("unsupported db driver `%s`", options.driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(options.autoMigrateTables...); err != nil {
		return nil, errors.Wrap(err, "gorm auto migrate")
	}
	return &DB{
		DB: db,
	}, nil
}

func openMysql(options *DBOptions) (*gorm.DB, error) {
	conn := "%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf(conn, options.user, options.password, options.addr, "")
	db, err := gorm.Open(gormMysqlDriver.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("gorm open :%v", err)
	}
	createDb := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`;", options.dbName)
	if err = db.Exec(createDb).Error; err != nil {
		return nil, fmt.Errorf("gorm create database :%v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	dsn = fmt.Sprintf(conn, options.user, options.password, options.addr, options.dbName)
	db, err = gorm.Open(gormMysqlDriver.Open(dsn), &gorm.Config{Logger: &GormLogger{Logger: options.log}})
	if err != nil {
		return nil, fmt.Errorf("gorm open :%v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm db :%v", err)
	}
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(50)
	return db, nil
}

func openSqlite(options *DBOptions) (*gorm.DB, error) {
	dsn := options.sqliteFile
	if dsn == "" {
		if options.dataDir == "" {
			return nil, errors.New("sqlite data dir is empty")
		}
		if err := os.MkdirAll(options.dataDir, 0700); err != nil {
			return nil, err
		}
		dsn = filepath.Join(options.dataDir, options.dbName+".db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: &GormLogger{Logger: options.log}})
	if err != nil {
		return nil, fmt.Errorf("gorm open :%v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm db :%v", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// GormLogger is a struct that embeds btclog.Logger to provide additional logging functionality.
type GormLogger struct {
	btclog.Logger
}

// LogMode is a method on GormLogger that sets the log level.
func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	switch level {
	case logger.Silent:
		g.Logger.SetLevel(btclog.LevelOff)
	case logger.Error:
		g.Logger.SetLevel(btclog.LevelError)
	case logger.Warn:
		g.Logger.SetLevel(btclog.LevelWarn)
	case logger.Info:
		g.Logger.SetLevel(btclog.LevelInfo)
	}
	return g
}

// Info is a method on GormLogger that logs an informational message.
func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	g.Logger.Infof(msg, data...)
}

// Warn is a method on GormLogger that logs a warning message.
func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	g.Logger.Warnf(msg, data...)
}

// Error is a method on GormLogger that logs an error message.
func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	g.Logger.Errorf(msg, data...)
}

// Trace is a method on GormLogger that logs a trace message.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.Logger.Level() > btclog.LevelTrace && err == nil {
		return
	}
	elapsed := time.Since(begin).Milliseconds()
	sql, rows := fc()
	sqlInfo := struct {
		Elapsed interface{}
		Rows    interface{}
		Err     string `json:",omitempty"`
		Sql     string
	}{
		Elapsed: elapsed,
		Rows:    rows,
		Sql:     sql,
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sqlInfo.Err = err.Error()
		sqlInfoByte, _ := json.Marshal(sqlInfo)
		g.Logger.Debug(string(sqlInfoByte))
		return
	}
	sqlInfoByte, _ := json.Marshal(sqlInfo)
	g.Logger.Trace(string(sqlInfoByte))
}

// ParamsFilter drops bound values from traced SQL so key material written by
// the ledger never reaches the log files.
func (g *GormLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	return sql, nil
}
