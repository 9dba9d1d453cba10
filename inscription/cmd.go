package inscription

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inscription-c/ordinscribe/constants"
	"github.com/inscription-c/ordinscribe/inscription/ledger/dao"
	"github.com/inscription-c/ordinscribe/inscription/ledger/tables"
	"github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/inscription-c/ordinscribe/internal/signal"
	"github.com/inscription-c/ordinscribe/internal/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type ledgerFlags struct {
	testnet   bool
	driver    string
	dataDir   string
	mysqlAddr string
	mysqlUser string
	mysqlPass string
	mysqlDB   string
	logLevel  string
}

func (f *ledgerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.testnet, "testnet", "t", false, "bitcoin testnet3")
	cmd.Flags().StringVarP(&f.driver, "db_driver", "", constants.DefaultDBDriver, "ledger database driver, sqlite or mysql")
	cmd.Flags().StringVarP(&f.dataDir, "data_dir", "", "", "sqlite ledger directory")
	cmd.Flags().StringVarP(&f.mysqlAddr, "mysql_addr", "", constants.DefaultDBAddr, "ledger mysql database addr")
	cmd.Flags().StringVarP(&f.mysqlUser, "mysql_user", "", constants.DefaultDBUser, "ledger mysql database user")
	cmd.Flags().StringVarP(&f.mysqlPass, "mysql_pass", "", "", "ledger mysql database password")
	cmd.Flags().StringVarP(&f.mysqlDB, "db", "", constants.DefaultDBName, "ledger mysql database name")
	cmd.Flags().StringVarP(&f.logLevel, "log_level", "", "info", "log level")
}

// open initializes logging and returns an inscriber backed by the ledger the
// flags point to. The ledger is closed by the interrupt handlers.
func (f *ledgerFlags) open(component string) (*Inscriber, error) {
	// Initialize log rotation.  After log rotation has been initialized, the
	// logger variables may be used.
	log.InitLogRotator(constants.LogFile(component))
	log.SetLogLevels(f.logLevel)

	if f.dataDir == "" {
		f.dataDir = constants.DBDataDir(f.testnet)
	}
	db, err := dao.NewDB(
		dao.WithDriver(f.driver),
		dao.WithDataDir(f.dataDir),
		dao.WithAddr(f.mysqlAddr),
		dao.WithUser(f.mysqlUser),
		dao.WithPassword(f.mysqlPass),
		dao.WithDBName(f.mysqlDB),
		dao.WithAutoMigrateTables(tables.Tables...),
	)
	if err != nil {
		return nil, err
	}
	signal.AddInterruptHandler(func() {
		if err := db.Close(); err != nil {
			log.Ldgr.Errorf("close ledger: %v", err)
		}
	})
	return New(WithLedger(db), WithParams(util.ChainParams(f.testnet)))
}

// runCommand runs a one shot command and then the interrupt handlers. The
// rotator handler is registered first so it runs last.
func runCommand(run func() error) {
	signal.AddInterruptHandler(log.CloseLogRotator)
	err := run()
	signal.SimulateInterrupt()
	<-signal.InterruptHandlersDone
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var (
	commitLedger       = &ledgerFlags{}
	commitFilePath     string
	commitFeeRate      float64
	commitDestination  string
	commitKey          string
	commitContentType  string
	commitCompress     bool
	commitJsonMetadata string
)

// CommitCmd derives a commit address for a file and records it in the ledger.
var CommitCmd = &cobra.Command{
	Use:   "commit",
	Short: "derive the commit address to fund for an inscription",
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(commit)
	},
}

func init() {
	commitLedger.register(CommitCmd)
	CommitCmd.Flags().StringVarP(&commitFilePath, "filepath", "f", "", "inscription file path")
	CommitCmd.Flags().Float64VarP(&commitFeeRate, "fee_rate", "r", 0, "fee rate in sat/vB")
	CommitCmd.Flags().StringVarP(&commitDestination, "dest", "", "", "send inscription to <DESTINATION> address")
	CommitCmd.Flags().StringVarP(&commitKey, "key", "k", "", "reuse this hex private key instead of generating one")
	CommitCmd.Flags().StringVarP(&commitContentType, "content_type", "", "", "content type, detected from the file when empty")
	CommitCmd.Flags().BoolVarP(&commitCompress, "compress", "", false, "compress inscription content with brotli")
	CommitCmd.Flags().StringVarP(&commitJsonMetadata, "jsonmetadata", "", "", "include JSON in file at <METADATA> converted to CBOR as inscription metadata")
	for _, name := range []string{"filepath", "fee_rate", "dest"} {
		if err := CommitCmd.MarkFlagRequired(name); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

func commit() error {
	file, err := os.ReadFile(commitFilePath)
	if err != nil {
		return errors.Wrap(err, "read inscription file")
	}
	var metadata []byte
	if commitJsonMetadata != "" {
		if metadata, err = os.ReadFile(commitJsonMetadata); err != nil {
			return errors.Wrap(err, "read metadata file")
		}
	}

	s, err := commitLedger.open("commit")
	if err != nil {
		return err
	}
	resp, err := s.CreateCommit(&CreateCommitRequest{
		File:                  file,
		FeeRate:               commitFeeRate,
		RecipientAddress:      commitDestination,
		ExistingPrivateKeyHex: commitKey,
		ContentType:           commitContentType,
		Compress:              commitCompress,
		MetadataJSON:          metadata,
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

var (
	revealLedger     = &ledgerFlags{}
	revealID         uint64
	revealFilePath   string
	revealCommitTxID string
	revealVout       uint32
	revealAmount     int64
	revealVersion    uint64
)

// RevealCmd signs the reveal transaction for a funded commit.
var RevealCmd = &cobra.Command{
	Use:   "reveal",
	Short: "sign the reveal transaction of a funded commit",
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(reveal)
	},
}

func init() {
	revealLedger.register(RevealCmd)
	RevealCmd.Flags().Uint64VarP(&revealID, "id", "i", 0, "inscription id returned by commit")
	RevealCmd.Flags().StringVarP(&revealFilePath, "filepath", "f", "", "inscription file path, the same file given to commit")
	RevealCmd.Flags().StringVarP(&revealCommitTxID, "commit_txid", "", "", "txid of the transaction funding the commit address")
	RevealCmd.Flags().Uint32VarP(&revealVout, "vout", "", 0, "output index of the funding output")
	RevealCmd.Flags().Int64VarP(&revealAmount, "amount", "a", 0, "value of the funding output in sats")
	RevealCmd.Flags().Uint64VarP(&revealVersion, "version", "", 0, "only store the reveal if the record is still at this version")
	for _, name := range []string{"id", "filepath", "commit_txid", "amount"} {
		if err := RevealCmd.MarkFlagRequired(name); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

func reveal() error {
	file, err := os.ReadFile(revealFilePath)
	if err != nil {
		return errors.Wrap(err, "read inscription file")
	}
	s, err := revealLedger.open("reveal")
	if err != nil {
		return err
	}
	resp, err := s.CreateReveal(&CreateRevealRequest{
		InscriptionID:     revealID,
		File:              file,
		CommitTxID:        revealCommitTxID,
		OutputIndex:       revealVout,
		FundingAmountSats: revealAmount,
		Version:           revealVersion,
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}
