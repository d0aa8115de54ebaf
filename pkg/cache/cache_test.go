package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New(time.Minute, 0, 0)
	defer c.Close()

	c.Set("key", "value")

	got, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, "value", got)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	c := New(10*time.Millisecond, 0, 0)
	defer c.Close()

	c.Set("key", "value")

	_, found := c.Get("key")
	require.True(t, found)

	time.Sleep(20 * time.Millisecond)

	_, found = c.Get("key")
	assert.False(t, found)
}

func TestSetWithExpirationOverridesDefault(t *testing.T) {
	c := New(10*time.Millisecond, 0, 0)
	defer c.Close()

	c.SetWithExpiration("key", "value", time.Hour)

	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.True(t, found)
}

func TestDelete(t *testing.T) {
	c := New(time.Minute, 0, 0)
	defer c.Close()

	c.Set("key", "value")
	c.Delete("key")

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestMaxItemsEviction(t *testing.T) {
	c := New(time.Minute, 0, 3)
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}

	assert.Equal(t, 3, c.Len())

	// The newest entry survives eviction
	got, found := c.Get("key4")
	require.True(t, found)
	assert.Equal(t, 4, got)
}

func TestMaxItemsEnforcedWithoutExpirations(t *testing.T) {
	// Zero default TTL means entries never expire, the size bound must
	// still hold
	c := New(0, 0, 2)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	assert.Equal(t, 2, c.Len())
}

func TestJanitorRemovesExpiredItems(t *testing.T) {
	c := New(5*time.Millisecond, 10*time.Millisecond, 0)
	defer c.Close()

	c.Set("key", "value")

	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestOverwriteExistingKeyDoesNotEvict(t *testing.T) {
	c := New(time.Minute, 0, 2)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	assert.Equal(t, 2, c.Len())
	got, found := c.Get("a")
	require.True(t, found)
	assert.Equal(t, 3, got)
}
