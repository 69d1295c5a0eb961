package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// ConnectDB opens the postgres pool and makes sure the schema exists.
func ConnectDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("[DB] connected")
	return db, nil
}

func createTables(db *sql.DB) error {
	usersTableSQL := `CREATE TABLE IF NOT EXISTS users (
	    id SERIAL PRIMARY KEY,
	    name TEXT NOT NULL DEFAULT '',
	    email TEXT NOT NULL UNIQUE,
	    password_hash TEXT NOT NULL,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := db.Exec(usersTableSQL); err != nil {
		return err
	}

	postsTableSQL := `CREATE TABLE IF NOT EXISTS posts (
	    id SERIAL PRIMARY KEY,
	    user_id INTEGER NOT NULL REFERENCES users(id),
	    content TEXT NOT NULL DEFAULT '',
	    media_url TEXT NOT NULL DEFAULT '',
	    media_type TEXT NOT NULL DEFAULT '',
	    section TEXT NOT NULL,
	    tags TEXT[] NOT NULL DEFAULT '{}',
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := db.Exec(postsTableSQL); err != nil {
		return err
	}

	indexSQL := `CREATE INDEX IF NOT EXISTS posts_section_created_idx
	    ON posts (section, created_at DESC);`
	_, err := db.Exec(indexSQL)
	return err
}
