package models

type MonthlyRevenue struct {
	Year  int   `json:"year" bson:"year"`
	Month int   `json:"month" bson:"month"`
	Total int64 `json:"total" bson:"total"`
}
