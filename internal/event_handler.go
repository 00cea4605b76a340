package internal

import "time"

type EventHandler interface {
	OnOrderCreated(event *OrderEvent)
	OnOrderPaid(event *OrderEvent)
	OnPaymentFailed(event *OrderEvent)
}

type OrderEvent struct {
	Type       string    `json:"type" bson:"type"`
	OrderId    string    `json:"order_id" bson:"order_id"`
	UserId     string    `json:"user_id" bson:"user_id"`
	TxnRef     string    `json:"txn_ref" bson:"txn_ref"`
	TotalPrice int64     `json:"total_price" bson:"total_price"`
	Status     string    `json:"status" bson:"status"`
	Info       string    `json:"info" bson:"info"`
	Time       time.Time `json:"time" bson:"time"`
}
