package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
)

type Order struct {
	OrderId     string    `json:"order_id" bson:"order_id"`
	UserId      string    `json:"user_id" bson:"user_id"`
	CartId      string    `json:"cart_id" bson:"cart_id"`
	AddressId   string    `json:"address_id" bson:"address_id"`
	Status      string    `json:"status" bson:"status"`
	TotalPrice  int64     `json:"total_price" bson:"total_price"`
	TxnRef      string    `json:"txn_ref" bson:"txn_ref"`
	TimeCreated time.Time `json:"time_created" bson:"time_created"`
	TimePaid    time.Time `json:"time_paid" bson:"time_paid"`
}
