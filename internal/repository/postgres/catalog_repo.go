package postgres

import (
	"comanda/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

type CatalogPostgresRepo struct {
	db *gorm.DB
}

func NewCatalogPostgres(db *gorm.DB) *CatalogPostgresRepo {
	return &CatalogPostgresRepo{db: db}
}

func (r *CatalogPostgresRepo) ActiveNeighborhoods() ([]models.Neighborhood, error) {
	var out []models.Neighborhood
	err := r.db.Where("active = ?", true).Order("name asc").Find(&out).Error
	return out, errors.Wrap(err, "active neighborhoods")
}

func (r *CatalogPostgresRepo) NeighborhoodByName(name string) (models.Neighborhood, error) {
	var n models.Neighborhood
	err := r.db.Where("name = ?", name).First(&n).Error
	return n, err
}

func (r *CatalogPostgresRepo) Courier(id string) (models.Courier, error) {
	var c models.Courier
	err := r.db.Where("id = ?", id).First(&c).Error
	return c, err
}
