package server

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/inscription-c/ordinscribe/constants"
	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/ledger/dao"
	"github.com/inscription-c/ordinscribe/inscription/ledger/tables"
	"github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/inscription-c/ordinscribe/inscription/server/config"
	"github.com/inscription-c/ordinscribe/inscription/server/handle"
	"github.com/inscription-c/ordinscribe/internal/sentry"
	"github.com/inscription-c/ordinscribe/internal/signal"
	"github.com/inscription-c/ordinscribe/internal/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	configFile string

	mainNetRPCListen = ":8335"
	testNetRPCListen = ":18335"
)

var Cmd = &cobra.Command{
	Use:   "server",
	Short: "inscription api server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(Srv); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	cfg := config.SrvCfg
	Cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	Cmd.Flags().BoolVarP(&cfg.Server.Testnet, "testnet", "t", false, "bitcoin testnet3")
	Cmd.Flags().StringVarP(&cfg.Server.RpcListen, "rpc_listen", "l", "", "api server listen address. Default `mainnet :8335, testnet :18335`")
	Cmd.Flags().BoolVarP(&cfg.Server.EnablePProf, "pprof", "", false, "enable pprof")
	Cmd.Flags().BoolVarP(&cfg.Server.Prometheus, "prometheus", "", false, "expose prometheus metrics on /metrics")
	Cmd.Flags().StringVarP(&cfg.Server.LogLevel, "log_level", "", "info", "log level: trace, debug, info, warn, error, critical")
	Cmd.Flags().StringVarP(&cfg.Server.MaxUploadSize, "max_upload_size", "", "4MiB", "largest accepted upload request")
	Cmd.Flags().StringVarP(&cfg.DB.Driver, "db_driver", "", constants.DefaultDBDriver, "ledger database driver, sqlite or mysql")
	Cmd.Flags().StringVarP(&cfg.DB.Sqlite.DataDir, "data_dir", "", "", "sqlite ledger directory")
	Cmd.Flags().StringVarP(&cfg.DB.Mysql.Addr, "mysql_addr", "d", constants.DefaultDBAddr, "ledger mysql database addr")
	Cmd.Flags().StringVarP(&cfg.DB.Mysql.User, "mysql_user", "", constants.DefaultDBUser, "ledger mysql database user")
	Cmd.Flags().StringVarP(&cfg.DB.Mysql.Password, "mysql_pass", "", "", "ledger mysql database password")
	Cmd.Flags().StringVarP(&cfg.DB.Mysql.DB, "db", "", constants.DefaultDBName, "ledger mysql database name")
	Cmd.Flags().StringVarP(&cfg.Sentry.Dsn, "sentry_dsn", "", "", "sentry dsn, empty disables reporting")
	Cmd.Flags().StringSliceVarP(&cfg.Origins, "origins", "", nil, "allowed CORS origins")
}

// serve runs start and blocks until the interrupt handlers are done. A
// failed start runs the handlers right away so whatever start opened is
// released and the log rotator is flushed.
func serve(start func() error) error {
	// registered first so it runs after every other handler
	signal.AddInterruptHandler(log.CloseLogRotator)
	if err := start(); err != nil {
		signal.SimulateInterrupt()
		<-signal.InterruptHandlersDone
		return err
	}
	<-signal.InterruptHandlersDone
	return nil
}

// Srv opens the ledger and starts the api server. It returns once the server
// is listening; shutdown runs through the interrupt handlers.
func Srv() error {
	cfg := config.SrvCfg
	if configFile != "" {
		if err := config.LoadFile(configFile, cfg); err != nil {
			return errors.Wrap(err, "load config")
		}
	}
	if cfg.Server.RpcListen == "" {
		cfg.Server.RpcListen = mainNetRPCListen
		if cfg.Server.Testnet {
			cfg.Server.RpcListen = testNetRPCListen
		}
	}
	if cfg.DB.Sqlite.DataDir == "" {
		cfg.DB.Sqlite.DataDir = constants.DBDataDir(cfg.Server.Testnet)
	}
	maxUploadSize, err := humanize.ParseBytes(cfg.Server.MaxUploadSize)
	if err != nil {
		return errors.Wrapf(err, "max_upload_size %q", cfg.Server.MaxUploadSize)
	}

	// Initialize log rotation.  After log rotation has been initialized, the
	// logger variables may be used.
	log.InitLogRotator(constants.LogFile("server"))
	log.SetLogLevels(cfg.Server.LogLevel)

	if err := sentry.Init(cfg.Sentry.Dsn, cfg.Sentry.TracesSampleRate, cfg.Server.Testnet); err != nil {
		return errors.Wrap(err, "sentry init")
	}

	db, err := dao.NewDB(
		dao.WithDriver(cfg.DB.Driver),
		dao.WithDataDir(cfg.DB.Sqlite.DataDir),
		dao.WithAddr(cfg.DB.Mysql.Addr),
		dao.WithUser(cfg.DB.Mysql.User),
		dao.WithPassword(cfg.DB.Mysql.Password),
		dao.WithDBName(cfg.DB.Mysql.DB),
		dao.WithAutoMigrateTables(tables.Tables...),
	)
	if err != nil {
		return err
	}
	signal.AddInterruptHandler(func() {
		if err := db.Close(); err != nil {
			log.Srv.Errorf("close ledger: %v", err)
		}
		sentry.Flush()
	})

	inscriber, err := inscription.New(
		inscription.WithLedger(db),
		inscription.WithParams(util.ChainParams(cfg.Server.Testnet)),
	)
	if err != nil {
		return err
	}

	h, err := handle.New(
		handle.WithInscriber(inscriber),
		handle.WithAddr(cfg.Server.RpcListen),
		handle.WithEnablePProf(cfg.Server.EnablePProf),
		handle.WithPrometheus(cfg.Server.Prometheus),
		handle.WithOrigins(cfg.Origins),
		handle.WithMaxUploadSize(int64(maxUploadSize)),
	)
	if err != nil {
		return err
	}
	return h.Run()
}
