package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

func wrapOpenDB(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// IsRemote reports whether target names a libsql server rather than a
// local sqlite file.
func IsRemote(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}
	switch parsed.Scheme {
	case "libsql", "http", "https", "ws", "wss":
		return true
	}
	return false
}

// Open opens a sqlite file (":memory:" included) or a libsql url and makes
// sure the schema exists.
func Open(target string) (*sql.DB, error) {
	var database *sql.DB
	var err error
	if IsRemote(target) {
		database, err = sql.Open("libsql", target)
	} else {
		database, err = openFile(target)
	}
	if err != nil {
		return nil, wrapOpenDB(err)
	}

	_, err = database.Exec(Schema)
	if err != nil {
		database.Close()
		return nil, wrapOpenDB(fmt.Errorf("apply schema: %w", err))
	}
	return database, nil
}

func openFile(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, err
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	database.SetMaxOpenConns(1)
	_, err = database.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
