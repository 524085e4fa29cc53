package store

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	return NewRedisStore(client), mock
}

func TestRedisStore_Get(t *testing.T) {
	st, mock := setupRedisStore(t)
	ctx := context.Background()

	mock.ExpectGet("event:1").SetVal(`{"id":1}`)
	v, ok := st.Get(ctx, "event:1")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"id":1}`), v)

	mock.ExpectGet("event:404").RedisNil()
	v, ok = st.Get(ctx, "event:404")
	assert.False(t, ok)
	assert.Nil(t, v)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_PutAndContains(t *testing.T) {
	st, mock := setupRedisStore(t)
	ctx := context.Background()

	mock.ExpectSet("event:1", []byte(`{"id":1}`), 0).SetVal("OK")
	st.Put(ctx, "event:1", []byte(`{"id":1}`))

	mock.ExpectExists("event:1").SetVal(1)
	assert.True(t, st.Contains(ctx, "event:1"))

	mock.ExpectExists("event:2").SetVal(0)
	assert.False(t, st.Contains(ctx, "event:2"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SwapMovesPresence(t *testing.T) {
	st, mock := setupRedisStore(t)
	ctx := context.Background()

	// Seller slot holds a ticket, buyer slot is vacant: after the swap
	// the seller key is deleted and the buyer key holds the ticket.
	mock.ExpectGet("ticket:1:alice").SetVal(`{"holder":"bob"}`)
	mock.ExpectGet("ticket:1:bob").RedisNil()
	mock.ExpectDel("ticket:1:alice").SetVal(1)
	mock.ExpectSet("ticket:1:bob", []byte(`{"holder":"bob"}`), 0).SetVal("OK")

	st.Swap(ctx, "ticket:1:alice", "ticket:1:bob")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SwapBothPresent(t *testing.T) {
	st, mock := setupRedisStore(t)
	ctx := context.Background()

	mock.ExpectGet("swap:a").SetVal("va")
	mock.ExpectGet("swap:b").SetVal("vb")
	mock.ExpectSet("swap:a", []byte("vb"), 0).SetVal("OK")
	mock.ExpectSet("swap:b", []byte("va"), 0).SetVal("OK")

	st.Swap(ctx, "swap:a", "swap:b")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_KeysWithPrefix(t *testing.T) {
	st, mock := setupRedisStore(t)
	ctx := context.Background()

	mock.ExpectScan(0, "ticket:1:*", 0).SetVal([]string{"ticket:1:alice", "ticket:1:bob"}, 0)

	keys := st.KeysWithPrefix(ctx, "ticket:1:")
	assert.ElementsMatch(t, []string{"ticket:1:alice", "ticket:1:bob"}, keys)

	require.NoError(t, mock.ExpectationsWereMet())
}
