package models

import "time"

type User struct {
	UserId         string    `json:"user_id" bson:"user_id"`
	Username       string    `json:"username" bson:"username"`
	Email          string    `json:"email" bson:"email"`
	Password       string    `json:"-" bson:"password"`
	Phone          string    `json:"phone" bson:"phone"`
	Avatar         string    `json:"avatar" bson:"avatar"`
	IsAdmin        bool      `json:"admin" bson:"admin"`
	DateRegistered time.Time `json:"date_registered" bson:"date_registered"`
	LastSeen       time.Time `json:"last_seen" bson:"last_seen"`
}
