package cache_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"comanda/internal/models"
	"comanda/internal/repository/cache"
)

func TestCustomerCache_PutGet(t *testing.T) {
	cch := cache.NewCustomerCache(cache.NewCache())

	_, err := cch.GetCustomer("5550000000")
	require.Error(t, err)
	if eh, ok := err.(cache.ErrorHandler); ok {
		require.Equal(t, http.StatusNotFound, eh.StatusCode)
	}

	in := models.Customer{Name: "Lupita", Phone: "5551234567", Neighborhood: "Centro"}
	cch.PutCustomer(in.Phone, in)

	got, err := cch.GetCustomer("5551234567")
	require.NoError(t, err)
	require.Equal(t, "Lupita", got.Name)
	require.Equal(t, "Centro", got.Neighborhood)
}

func TestCustomerCache_EmptyPhoneIgnored(t *testing.T) {
	store := cache.NewCache()
	cch := cache.NewCustomerCache(store)

	cch.PutCustomer("", models.Customer{Name: "anon"})
	require.Empty(t, store.Snapshot())
}

func TestCustomerCache_Delete(t *testing.T) {
	cch := cache.NewCustomerCache(cache.NewCache())

	cch.PutCustomer("5551234567", models.Customer{Name: "Lupita", Phone: "5551234567"})
	cch.Delete("5551234567")

	_, err := cch.GetCustomer("5551234567")
	require.Error(t, err)
}

func TestCache_Overwrite_KeepsLatestSnapshot(t *testing.T) {
	c := cache.NewCache()

	c.Put("5551234567", models.Customer{Name: "Lupita", Neighborhood: "Centro"})
	c.Put("5551234567", models.Customer{Name: "Lupita", Neighborhood: "Roma"})

	got, ok := c.Get("5551234567")
	require.True(t, ok)
	require.Equal(t, "Roma", got.Neighborhood)
	require.Len(t, c.Snapshot(), 1)
}

func TestCache_TTL_ExpiresOnGet(t *testing.T) {
	ttl := 20 * time.Millisecond
	c := cache.NewCache(cache.WithTTL(ttl), cache.WithNoJanitor())
	defer c.Close()

	c.Put("5559876543", models.Customer{Name: "Beto", Phone: "5559876543"})

	got, ok := c.Get("5559876543")
	require.True(t, ok)
	require.Equal(t, "Beto", got.Name)

	time.Sleep(ttl + 10*time.Millisecond)

	_, ok = c.Get("5559876543")
	require.False(t, ok, "expired entry should be dropped on Get")
	require.Empty(t, c.Snapshot())
}
