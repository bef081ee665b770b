//go:build cgo_sqlite

package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// openHistoryDB opens the history database with the cgo driver, which takes
// its pragmas as underscore-prefixed DSN parameters.
func openHistoryDB(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
}
