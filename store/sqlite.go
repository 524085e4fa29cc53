package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger in a single key-value table, queried
// through dbx. The encoding of records stays the store-wide JSON; SQLite
// only supplies durability.
type SQLiteStore struct {
	db *dbx.DB
}

// OpenSQLiteStore opens (or creates) the database at path and ensures
// the kv table exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := dbx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	_, err = db.NewQuery(
		"CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v BLOB NOT NULL)",
	).Execute()
	if err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(_ context.Context, key string) ([]byte, bool) {
	return getKV(s.db, key)
}

func (s *SQLiteStore) Put(_ context.Context, key string, value []byte) {
	putKV(s.db, key, value)
}

func (s *SQLiteStore) Contains(_ context.Context, key string) bool {
	var n int
	err := s.db.Select("COUNT(*)").From("kv").Where(dbx.HashExp{"k": key}).Row(&n)
	if err != nil {
		panic(fmt.Errorf("sqlite contains %s: %w", key, err))
	}
	return n > 0
}

func (s *SQLiteStore) Swap(_ context.Context, keyA, keyB string) {
	err := s.db.Transactional(func(tx *dbx.Tx) error {
		va, okA := getKV(tx, keyA)
		vb, okB := getKV(tx, keyB)

		if okB {
			putKV(tx, keyA, vb)
		} else {
			delKV(tx, keyA)
		}
		if okA {
			putKV(tx, keyB, va)
		} else {
			delKV(tx, keyB)
		}
		return nil
	})
	if err != nil {
		panic(fmt.Errorf("sqlite swap %s %s: %w", keyA, keyB, err))
	}
}

func (s *SQLiteStore) KeysWithPrefix(_ context.Context, prefix string) []string {
	var keys []string
	err := s.db.Select("k").From("kv").
		Where(dbx.Like("k", prefix).Match(false, true)).
		Column(&keys)
	if err != nil {
		panic(fmt.Errorf("sqlite keys %s*: %w", prefix, err))
	}
	return keys
}

func getKV(b dbx.Builder, key string) ([]byte, bool) {
	var v []byte
	err := b.Select("v").From("kv").Where(dbx.HashExp{"k": key}).Row(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		panic(fmt.Errorf("sqlite get %s: %w", key, err))
	}
	return v, true
}

func putKV(b dbx.Builder, key string, value []byte) {
	_, err := b.NewQuery(
		"INSERT INTO kv (k, v) VALUES ({:k}, {:v}) ON CONFLICT(k) DO UPDATE SET v = excluded.v",
	).Bind(dbx.Params{"k": key, "v": value}).Execute()
	if err != nil {
		panic(fmt.Errorf("sqlite put %s: %w", key, err))
	}
}

func delKV(b dbx.Builder, key string) {
	_, err := b.Delete("kv", dbx.HashExp{"k": key}).Execute()
	if err != nil {
		panic(fmt.Errorf("sqlite del %s: %w", key, err))
	}
}
