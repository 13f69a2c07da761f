package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

func TestMemoryStoreCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStoreCache(time.Minute)

	require.NoError(t, c.Set(ctx, "loja-1", "stock:list", []payload{{Name: "Arroz", Qty: 5}}))
	require.NoError(t, c.Set(ctx, "loja-2", "stock:list", []payload{{Name: "Feijão", Qty: 2}}))

	var got []payload
	ok, err := c.Get(ctx, "loja-1", "stock:list", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []payload{{Name: "Arroz", Qty: 5}}, got)

	require.NoError(t, c.Invalidate(ctx, "loja-1"))
	ok, err = c.Get(ctx, "loja-1", "stock:list", &got)
	require.NoError(t, err)
	assert.False(t, ok, "la entrada de la loja invalidada no se sirve")

	ok, err = c.Get(ctx, "loja-2", "stock:list", &got)
	require.NoError(t, err)
	assert.True(t, ok, "otras lojas no se ven afectadas")
}

func TestMemoryStoreCache_Expira(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStoreCache(time.Second)
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	require.NoError(t, c.Set(ctx, "loja-1", "k", payload{Name: "x"}))
	c.now = func() time.Time { return base.Add(2 * time.Second) }

	var got payload
	ok, err := c.Get(ctx, "loja-1", "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoopStoreCache_SiempreMiss(t *testing.T) {
	ctx := context.Background()
	var c NoopStoreCache
	require.NoError(t, c.Set(ctx, "loja-1", "k", 1))
	var n int
	ok, err := c.Get(ctx, "loja-1", "k", &n)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreCache_InvalidacionPorVersion(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("set REDIS_TEST_ADDR to run redis cache test")
	}
	ctx := context.Background()
	c := NewRedisStoreCache(addr, "", 0, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(ctx))

	storeID := fmt.Sprintf("it-%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = c.client.Del(ctx, versionKey(storeID)).Err() })

	require.NoError(t, c.Set(ctx, storeID, "stock:low", payload{Name: "Leite", Qty: 1}))
	var got payload
	ok, err := c.Get(ctx, storeID, "stock:low", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Leite", got.Name)

	require.NoError(t, c.Invalidate(ctx, storeID))
	ok, err = c.Get(ctx, storeID, "stock:low", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
