package handlers

import (
	"fmt"
	"moontech/internal"
	"moontech/models"
	"moontech/utility"
	"time"
)

type Carts struct {
	database internal.Database
	logger   internal.LogHandler
}

func NewCarts() *Carts {
	return &Carts{}
}

func (c *Carts) SetDatabase(database internal.Database) {
	c.database = database
}

func (c *Carts) SetLogger(logger internal.LogHandler) {
	c.logger = logger
}

func (c *Carts) UserCart(userId string) (*models.Cart, error) {
	cart, err := c.database.GetActiveCart(userId)
	if err != nil || cart == nil {
		return nil, fmt.Errorf("%w: no active cart", ErrNotFound)
	}
	return cart, nil
}

// AddItem merges a product into the user's active cart: an existing item
// gets its quantity incremented, a new one is appended. A cart is created
// when the user has no active one.
func (c *Carts) AddItem(userId, productId string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}
	if _, err := c.database.GetProduct(productId); err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productId)
	}

	now := time.Now().UTC()
	cart, err := c.database.GetActiveCart(userId)
	if err != nil || cart == nil {
		cart = &models.Cart{
			CartId:      utility.NewUUID(),
			UserId:      userId,
			Status:      models.CartStatusActive,
			Items:       []models.CartItem{{ProductId: productId, Quantity: quantity}},
			TimeCreated: now,
			TimeUpdated: now,
		}
		if err = c.database.AddCart(cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	merged := false
	for i, item := range cart.Items {
		if item.ProductId == productId {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{ProductId: productId, Quantity: quantity})
	}
	cart.TimeUpdated = now
	if err = c.database.UpdateCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (c *Carts) UpdateItem(userId, productId string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalid)
	}
	cart, err := c.UserCart(userId)
	if err != nil {
		return nil, err
	}
	for i, item := range cart.Items {
		if item.ProductId == productId {
			cart.Items[i].Quantity = quantity
			cart.TimeUpdated = time.Now().UTC()
			if err = c.database.UpdateCart(cart); err != nil {
				return nil, err
			}
			return cart, nil
		}
	}
	return nil, fmt.Errorf("%w: item %s", ErrNotFound, productId)
}

func (c *Carts) RemoveItem(userId, productId string) (*models.Cart, error) {
	cart, err := c.UserCart(userId)
	if err != nil {
		return nil, err
	}
	for i, item := range cart.Items {
		if item.ProductId == productId {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.TimeUpdated = time.Now().UTC()
			if err = c.database.UpdateCart(cart); err != nil {
				return nil, err
			}
			return cart, nil
		}
	}
	return nil, fmt.Errorf("%w: item %s", ErrNotFound, productId)
}
