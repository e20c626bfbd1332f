package repositories

import "github.com/Kiko4ko1/magnetsbg-store/app/models"

// CatalogRepository serves the fixed product list. Products never change
// after construction, so reads need no locking.
type CatalogRepository struct {
	products []models.Product
}

// NewCatalogRepository seeds the souvenir magnet catalogue.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		products: []models.Product{
			{ID: "p1", Title: "Магнит — Рила", Price: 9.99},
			{ID: "p2", Title: "Магнит — Черно море", Price: 8.49},
			{ID: "p3", Title: "Магнит — Пловдив", Price: 7.99},
		},
	}
}

// All returns every product in display order.
func (r *CatalogRepository) All() []models.Product {
	return r.products
}

// Find looks up a product by id.
func (r *CatalogRepository) Find(id string) (models.Product, bool) {
	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
