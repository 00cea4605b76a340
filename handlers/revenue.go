package handlers

import (
	"moontech/internal"
	"moontech/models"
)

type Revenue struct {
	database internal.Database
	logger   internal.LogHandler
}

func NewRevenue() *Revenue {
	return &Revenue{}
}

func (r *Revenue) SetDatabase(database internal.Database) {
	r.database = database
}

func (r *Revenue) SetLogger(logger internal.LogHandler) {
	r.logger = logger
}

func (r *Revenue) Total() (int64, error) {
	return r.database.GetTotalRevenue()
}

func (r *Revenue) Monthly() ([]models.MonthlyRevenue, error) {
	return r.database.GetMonthlyRevenue()
}

func (r *Revenue) AverageOrderValue() (float64, error) {
	return r.database.GetAverageOrderValue()
}
