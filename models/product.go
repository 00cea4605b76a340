package models

import "time"

type Product struct {
	ProductId   string    `json:"product_id" bson:"product_id"`
	Name        string    `json:"name" bson:"name"`
	CategoryId  string    `json:"category_id" bson:"category_id"`
	Description string    `json:"description" bson:"description"`
	Price       int64     `json:"price" bson:"price"`
	Image       string    `json:"image" bson:"image"`
	Sale        int       `json:"sale" bson:"sale"`
	Rating      float64   `json:"rating" bson:"rating"`
	TimeCreated time.Time `json:"time_created" bson:"time_created"`
}

// SalePrice returns the price after the sale percentage is applied
func (p *Product) SalePrice() int64 {
	if p.Sale <= 0 {
		return p.Price
	}
	return p.Price - p.Price*int64(p.Sale)/100
}
