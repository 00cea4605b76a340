package models

type ShippingAddress struct {
	AddressId string `json:"address_id" bson:"address_id"`
	UserId    string `json:"user_id" bson:"user_id"`
	Recipient string `json:"recipient" bson:"recipient"`
	Phone     string `json:"phone" bson:"phone"`
	Street    string `json:"street" bson:"street"`
	City      string `json:"city" bson:"city"`
	Country   string `json:"country" bson:"country"`
}
