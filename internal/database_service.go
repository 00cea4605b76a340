package internal

import "moontech/models"

type Database interface {
	WriteLogMessage(data Data) error
	ReadLog() (interface{}, error)

	GetUser(email string) (*models.User, error)
	GetUserById(id string) (*models.User, error)
	AddUser(user *models.User) error
	UpdateUser(user *models.User) error

	GetProducts() ([]models.Product, error)
	GetProduct(id string) (*models.Product, error)
	AddProduct(product *models.Product) error
	UpdateProduct(product *models.Product) error
	DeleteProduct(id string) error

	GetCategories() ([]models.Category, error)
	GetCategory(id string) (*models.Category, error)
	AddCategory(category *models.Category) error
	UpdateCategory(category *models.Category) error
	DeleteCategory(id string) error
	AddProductToCategory(categoryId, productId string) error

	GetActiveCart(userId string) (*models.Cart, error)
	AddCart(cart *models.Cart) error
	UpdateCart(cart *models.Cart) error

	GetOrders(userId string) ([]models.Order, error)
	GetAllOrders() ([]models.Order, error)
	GetOrder(id string) (*models.Order, error)
	GetOrderByTxnRef(txnRef string) (*models.Order, error)
	GetLastPendingOrder(userId string) (*models.Order, error)
	AddOrder(order *models.Order) error
	UpdateOrder(order *models.Order) error
	DeletePendingOrders(userId string) error

	GetAddresses(userId string) ([]models.ShippingAddress, error)
	GetAddress(id string) (*models.ShippingAddress, error)
	AddAddress(address *models.ShippingAddress) error
	DeleteAddress(id string) error

	GetComments(productId string) ([]models.Comment, error)
	AddComment(comment *models.Comment) error

	GetTotalRevenue() (int64, error)
	GetMonthlyRevenue() ([]models.MonthlyRevenue, error)
	GetAverageOrderValue() (float64, error)

	GetSubscriptions() ([]models.UserSubscription, error)
	GetSubscription(id int) (*models.UserSubscription, error)
	AddSubscription(subscription *models.UserSubscription) error
	DeleteSubscription(subscription *models.UserSubscription) error
}

type Data interface {
	DataType() string
}
