package models

import "time"

type Comment struct {
	CommentId   string    `json:"comment_id" bson:"comment_id"`
	ProductId   string    `json:"product_id" bson:"product_id"`
	UserId      string    `json:"user_id" bson:"user_id"`
	Username    string    `json:"username" bson:"username"`
	Text        string    `json:"text" bson:"text"`
	Rating      int       `json:"rating" bson:"rating"`
	TimeCreated time.Time `json:"time_created" bson:"time_created"`
}
