package models

// SubscriptionTypeOrders marks operators receiving order lifecycle
// notifications via the bot.
const SubscriptionTypeOrders = "orders"

// UserSubscription is a telegram operator subscribed to store events.
type UserSubscription struct {
	UserID           int    `json:"user_id" bson:"user_id"`
	User             string `json:"user" bson:"user"`
	SubscriptionType string `json:"subscription_type" bson:"subscription_type"`
}
