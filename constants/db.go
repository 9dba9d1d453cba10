package constants

import (
	"github.com/btcsuite/btcd/btcutil"
	"path/filepath"
)

const (
	DefaultDBName   = "ordinscribe"
	DefaultDBUser   = "root"
	DefaultDBAddr   = "127.0.0.1:3306"
	DBDriverMysql   = "mysql"
	DBDriverSqlite  = "sqlite"
	DefaultDBDriver = DBDriverSqlite
)

// DBDataDir returns the directory holding the embedded sqlite ledger.
func DBDataDir(testnet bool) string {
	if testnet {
		return btcutil.AppDataDir(filepath.Join(AppName, "ledger", "testnet"), false)
	}
	return btcutil.AppDataDir(filepath.Join(AppName, "ledger", "mainnet"), false)
}

// LogFile returns the rotating log file path for the given component.
func LogFile(component string) string {
	return btcutil.AppDataDir(filepath.Join(AppName, "logs", component+".log"), false)
}
