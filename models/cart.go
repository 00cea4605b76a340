package models

import "time"

const (
	CartStatusActive   = "active"
	CartStatusDeactive = "deactive"
)

type CartItem struct {
	ProductId string `json:"product_id" bson:"product_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

type Cart struct {
	CartId      string     `json:"cart_id" bson:"cart_id"`
	UserId      string     `json:"user_id" bson:"user_id"`
	Status      string     `json:"status" bson:"status"`
	Items       []CartItem `json:"items" bson:"items"`
	TimeCreated time.Time  `json:"time_created" bson:"time_created"`
	TimeUpdated time.Time  `json:"time_updated" bson:"time_updated"`
}
