package db

type DatabaseLayer int

const (
	DATABASE_LAYER_EMPTY = iota
	DATABASE_LAYER_1     // original schema
)

func initialSetup() {
	switch determineDatabaseLayer() {
	case DATABASE_LAYER_EMPTY:
		err := schemaVersionOne()
		if err != nil {
			panic(err)
		}
		fallthrough
	case DATABASE_LAYER_1:
		// up to date
	}
}

func schemaVersionOne() error {
	tx, err := DB.Begin()
	if err != nil {
		panic(err)
	}
	defer tx.Rollback()
	_, err = tx.Exec(`
	CREATE TABLE files (

		path        TEXT    NOT NULL PRIMARY KEY, /* path on disk to the file */
		hash        BLOB    NOT NULL, /* sha256 of contents as of the last record */
		size        INTEGER NOT NULL, /* size in bytes as of the last record */
		fs_modified INTEGER NOT NULL, /* filesystem modified timestamp (unix seconds), used to skip rehashing unchanged files */
		recorded    INTEGER NOT NULL, /* when this row was written (unix seconds) */

		CHECK(LENGTH(path) > 1),
		CHECK(LENGTH(hash) == 32), /* sha256 length */
		CHECK(size >= 0), /* do not assume size > 0. empty files are everywhere, google takeout alone has dozens of them as markers */
		CHECK(fs_modified >= 0),
		CHECK(recorded > 0)
	);
	CREATE INDEX files_by_hash ON files(hash); /* needed to find all paths with identical contents */
	`)
	if err != nil {
		return err
	}
	err = tx.Commit()
	if err != nil {
		panic(err)
	}
	return nil
}

func query(query string) string {
	rows, err := DB.Query(query)
	if err != nil {
		panic(err)
	}
	defer rows.Close()
	ret := ""
	for rows.Next() {
		var tableName string
		err = rows.Scan(&tableName)
		if err != nil {
			panic(err)
		}
		ret = ret + tableName + ","
	}
	err = rows.Err()
	if err != nil {
		panic(err)
	}
	return ret
}

func determineDatabaseLayer() DatabaseLayer {
	tables := query("SELECT name FROM sqlite_master WHERE type = 'table' AND name != 'sqlite_stat1' ORDER BY name")
	if tables == "" {
		return DATABASE_LAYER_EMPTY
	}

	// sanity
	if tables != "files," {
		panic("gsum.db doesn't have the tables that I expect. expected 'files,' but got '" + tables + "'")
	}
	cols := query("SELECT name FROM PRAGMA_TABLE_INFO('files')")
	if cols != "path,hash,size,fs_modified,recorded," {
		panic("the 'files' table doesn't have the columns that I expect. expected 'path,hash,size,fs_modified,recorded,' but got '" + cols + "'")
	}
	return DATABASE_LAYER_1
}
