package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gsum/gsum/config"

	_ "github.com/mattn/go-sqlite3"
)

// the below is from the faq for go-sqlite3, but with the foreign key part added
const databaseTestPath = "file::memory:?mode=memory&cache=shared&_foreign_keys=1"

var ErrNoRows = sql.ErrNoRows

var DB *sql.DB

// only to be used for sqlite errors
// sql errors in gsum are 1. unrecoverable 2. not expected to ever be user-facing
// a panic is the right choice
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// see https://sqlite.org/forum/info/eabfcd13dcd71807
func StartsWithPattern(arg int32) string {
	return fmt.Sprintf(" BETWEEN (?%d) AND (?%d || x'ff') ", arg, arg)
	// this works because 0xff is higher than any byte of any valid utf8 string
	// utils.WalkFiles refuses to hand us non-utf8 paths so this is airtight
}

func SetupDatabase() {
	var db string
	if config.DatabaseLocation != "" {
		db = config.DatabaseLocation
		if _, err := os.Stat(db); errors.Is(err, os.ErrNotExist) {
			panic(db + " does not exist")
		}
	} else {
		db = config.Config().DatabaseLocation
	}
	setupDatabase("file:"+db+"?_foreign_keys=1&_journal_mode=wal&_sync=1&_busy_timeout=20000", true)
}

func SetupDatabaseTestMode(setupSchema bool) {
	setupDatabase(databaseTestPath, setupSchema)
}

func setupDatabase(fullPath string, setupSchema bool) {
	var err error
	DB, err = sql.Open("sqlite3", fullPath)
	Must(err)
	_, err = DB.Exec("PRAGMA journal_size_limit = 100000000") // 100 megabytes
	Must(err)
	if setupSchema {
		initialSetup()
	}
}

func ShutdownDatabase() {
	if DB == nil {
		log.Println("Attempting to shutdown a database that has never been setup??")
		return
	}
	DB.Close()
}
