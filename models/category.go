package models

import "time"

type Category struct {
	CategoryId  string    `json:"category_id" bson:"category_id"`
	Name        string    `json:"name" bson:"name"`
	Products    []string  `json:"products" bson:"products"`
	TimeCreated time.Time `json:"time_created" bson:"time_created"`
}
