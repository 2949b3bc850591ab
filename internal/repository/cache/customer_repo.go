package cache

import (
	"fmt"
	"net/http"

	"comanda/internal/models"
)

// CustomerCacheRepo adapts a Store to the repository-facing customer lookup.
// Purely advisory: nothing here is consulted for order or shift correctness.
type CustomerCacheRepo struct {
	cch Store
}

func NewCustomerCache(cch Store) *CustomerCacheRepo {
	return &CustomerCacheRepo{cch: cch}
}

func (r *CustomerCacheRepo) PutCustomer(phone string, c models.Customer) {
	if phone == "" {
		return
	}
	r.cch.Put(phone, c)
}

func (r *CustomerCacheRepo) GetCustomer(phone string) (models.Customer, error) {
	c, ok := r.cch.Get(phone)
	if !ok {
		return models.Customer{}, NewErrorHandler(fmt.Errorf("customer %s not found", phone), http.StatusNotFound)
	}
	return c, nil
}

func (r *CustomerCacheRepo) Delete(phone string) {
	r.cch.Delete(phone)
}
