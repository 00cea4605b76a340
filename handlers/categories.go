package handlers

import (
	"fmt"
	"moontech/internal"
	"moontech/models"
	"moontech/utility"
	"time"
)

type Categories struct {
	database internal.Database
	logger   internal.LogHandler
}

func NewCategories() *Categories {
	return &Categories{}
}

func (c *Categories) SetDatabase(database internal.Database) {
	c.database = database
}

func (c *Categories) SetLogger(logger internal.LogHandler) {
	c.logger = logger
}

func (c *Categories) All() ([]models.Category, error) {
	return c.database.GetCategories()
}

func (c *Categories) Add(category *models.Category) (*models.Category, error) {
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category needs a name", ErrInvalid)
	}
	category.CategoryId = utility.NewUUID()
	category.TimeCreated = time.Now().UTC()
	if category.Products == nil {
		category.Products = []string{}
	}
	if err := c.database.AddCategory(category); err != nil {
		return nil, err
	}
	c.logger.FeatureEvent("AddCategory", "", fmt.Sprintf("added category %s", category.Name))
	return category, nil
}

func (c *Categories) Update(id string, category *models.Category) (*models.Category, error) {
	existing, err := c.database.GetCategory(id)
	if err != nil {
		return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	category.CategoryId = existing.CategoryId
	category.TimeCreated = existing.TimeCreated
	if category.Products == nil {
		category.Products = existing.Products
	}
	if err = c.database.UpdateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (c *Categories) Delete(id string) error {
	if _, err := c.database.GetCategory(id); err != nil {
		return fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return c.database.DeleteCategory(id)
}
