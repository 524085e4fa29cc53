package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	st, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer st.Close()

	runStoreContract(t, st)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	st, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	st.Put(context.Background(), "event:1", []byte("persisted"))
	require.NoError(t, st.Close())

	st, err = OpenSQLiteStore(path)
	require.NoError(t, err)
	defer st.Close()

	v, ok := st.Get(context.Background(), "event:1")
	require.True(t, ok)
	require.Equal(t, []byte("persisted"), v)
}
