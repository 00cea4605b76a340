package handlers

import (
	"fmt"
	"moontech/internal"
	"moontech/models"
	"moontech/utility"
	"time"
)

type Products struct {
	database internal.Database
	logger   internal.LogHandler
}

func NewProducts() *Products {
	return &Products{}
}

func (p *Products) SetDatabase(database internal.Database) {
	p.database = database
}

func (p *Products) SetLogger(logger internal.LogHandler) {
	p.logger = logger
}

func (p *Products) All() ([]models.Product, error) {
	return p.database.GetProducts()
}

func (p *Products) Add(product *models.Product) (*models.Product, error) {
	if product.Name == "" || product.Price <= 0 {
		return nil, fmt.Errorf("%w: product needs a name and a positive price", ErrInvalid)
	}
	if product.Sale < 0 || product.Sale > 100 {
		return nil, fmt.Errorf("%w: sale must be between 0 and 100", ErrInvalid)
	}
	product.ProductId = utility.NewUUID()
	product.TimeCreated = time.Now().UTC()
	if err := p.database.AddProduct(product); err != nil {
		return nil, err
	}
	if product.CategoryId != "" {
		if err := p.database.AddProductToCategory(product.CategoryId, product.ProductId); err != nil {
			p.logger.Warn(fmt.Sprintf("link product %s to category %s: %s", product.ProductId, product.CategoryId, err))
		}
	}
	p.logger.FeatureEvent("AddProduct", "", fmt.Sprintf("added product %s", product.Name))
	return product, nil
}

func (p *Products) Update(id string, product *models.Product) (*models.Product, error) {
	existing, err := p.database.GetProduct(id)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	product.ProductId = existing.ProductId
	product.TimeCreated = existing.TimeCreated
	if product.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalid)
	}
	if err = p.database.UpdateProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (p *Products) Delete(id string) error {
	if _, err := p.database.GetProduct(id); err != nil {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return p.database.DeleteProduct(id)
}
