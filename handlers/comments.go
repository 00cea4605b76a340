package handlers

import (
	"fmt"
	"moontech/internal"
	"moontech/models"
	"moontech/utility"
	"time"
)

type Comments struct {
	database internal.Database
	logger   internal.LogHandler
}

func NewComments() *Comments {
	return &Comments{}
}

func (c *Comments) SetDatabase(database internal.Database) {
	c.database = database
}

func (c *Comments) SetLogger(logger internal.LogHandler) {
	c.logger = logger
}

func (c *Comments) ProductComments(productId string) ([]models.Comment, error) {
	if _, err := c.database.GetProduct(productId); err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productId)
	}
	return c.database.GetComments(productId)
}

func (c *Comments) Add(userId, username, productId, text string, rating int) (*models.Comment, error) {
	if rating < 0 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalid)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalid)
	}
	if _, err := c.database.GetProduct(productId); err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productId)
	}
	comment := &models.Comment{
		CommentId:   utility.NewUUID(),
		ProductId:   productId,
		UserId:      userId,
		Username:    username,
		Text:        text,
		Rating:      rating,
		TimeCreated: time.Now().UTC(),
	}
	if err := c.database.AddComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}
