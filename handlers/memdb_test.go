package handlers

import (
	"fmt"
	"moontech/internal"
	"moontech/models"
	"sort"
)

// memDB is an in-memory Database used by the handler tests.
type memDB struct {
	users         map[string]*models.User
	products      map[string]*models.Product
	categories    map[string]*models.Category
	carts         map[string]*models.Cart
	orders        map[string]*models.Order
	addresses     map[string]*models.ShippingAddress
	comments      []models.Comment
	subscriptions map[int]*models.UserSubscription
	orderSeq      int
}

func newMemDB() *memDB {
	return &memDB{
		users:         make(map[string]*models.User),
		products:      make(map[string]*models.Product),
		categories:    make(map[string]*models.Category),
		carts:         make(map[string]*models.Cart),
		orders:        make(map[string]*models.Order),
		addresses:     make(map[string]*models.ShippingAddress),
		subscriptions: make(map[int]*models.UserSubscription),
	}
}

func (m *memDB) WriteLogMessage(internal.Data) error { return nil }
func (m *memDB) ReadLog() (interface{}, error)       { return nil, nil }

func (m *memDB) GetUser(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *memDB) GetUserById(id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (m *memDB) AddUser(user *models.User) error {
	m.users[user.UserId] = user
	return nil
}

func (m *memDB) UpdateUser(user *models.User) error {
	m.users[user.UserId] = user
	return nil
}

func (m *memDB) GetProducts() ([]models.Product, error) {
	result := make([]models.Product, 0, len(m.products))
	for _, product := range m.products {
		result = append(result, *product)
	}
	return result, nil
}

func (m *memDB) GetProduct(id string) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product not found")
	}
	return product, nil
}

func (m *memDB) AddProduct(product *models.Product) error {
	m.products[product.ProductId] = product
	return nil
}

func (m *memDB) UpdateProduct(product *models.Product) error {
	m.products[product.ProductId] = product
	return nil
}

func (m *memDB) DeleteProduct(id string) error {
	delete(m.products, id)
	return nil
}

func (m *memDB) GetCategories() ([]models.Category, error) {
	result := make([]models.Category, 0, len(m.categories))
	for _, category := range m.categories {
		result = append(result, *category)
	}
	return result, nil
}

func (m *memDB) GetCategory(id string) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, fmt.Errorf("category not found")
	}
	return category, nil
}

func (m *memDB) AddCategory(category *models.Category) error {
	m.categories[category.CategoryId] = category
	return nil
}

func (m *memDB) UpdateCategory(category *models.Category) error {
	m.categories[category.CategoryId] = category
	return nil
}

func (m *memDB) DeleteCategory(id string) error {
	delete(m.categories, id)
	return nil
}

func (m *memDB) AddProductToCategory(categoryId, productId string) error {
	category, ok := m.categories[categoryId]
	if !ok {
		return fmt.Errorf("category not found")
	}
	category.Products = append(category.Products, productId)
	return nil
}

func (m *memDB) GetActiveCart(userId string) (*models.Cart, error) {
	for _, cart := range m.carts {
		if cart.UserId == userId && cart.Status == models.CartStatusActive {
			return cart, nil
		}
	}
	return nil, fmt.Errorf("cart not found")
}

func (m *memDB) AddCart(cart *models.Cart) error {
	m.carts[cart.CartId] = cart
	return nil
}

func (m *memDB) UpdateCart(cart *models.Cart) error {
	m.carts[cart.CartId] = cart
	return nil
}

func (m *memDB) GetOrders(userId string) ([]models.Order, error) {
	var result []models.Order
	for _, order := range m.orders {
		if order.UserId == userId {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (m *memDB) GetAllOrders() ([]models.Order, error) {
	result := make([]models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		result = append(result, *order)
	}
	return result, nil
}

func (m *memDB) GetOrder(id string) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order not found")
	}
	return order, nil
}

func (m *memDB) GetOrderByTxnRef(txnRef string) (*models.Order, error) {
	for _, order := range m.orders {
		if order.TxnRef == txnRef && txnRef != "" {
			return order, nil
		}
	}
	return nil, fmt.Errorf("order not found")
}

func (m *memDB) GetLastPendingOrder(userId string) (*models.Order, error) {
	var pending []*models.Order
	for _, order := range m.orders {
		if order.UserId == userId && order.Status == models.OrderStatusPending {
			pending = append(pending, order)
		}
	}
	if len(pending) == 0 {
		return nil, fmt.Errorf("order not found")
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].TimeCreated.After(pending[j].TimeCreated)
	})
	return pending[0], nil
}

func (m *memDB) AddOrder(order *models.Order) error {
	m.orderSeq++
	m.orders[order.OrderId] = order
	return nil
}

func (m *memDB) UpdateOrder(order *models.Order) error {
	m.orders[order.OrderId] = order
	return nil
}

func (m *memDB) DeletePendingOrders(userId string) error {
	for id, order := range m.orders {
		if order.UserId == userId && order.Status == models.OrderStatusPending {
			delete(m.orders, id)
		}
	}
	return nil
}

func (m *memDB) GetAddresses(userId string) ([]models.ShippingAddress, error) {
	var result []models.ShippingAddress
	for _, address := range m.addresses {
		if address.UserId == userId {
			result = append(result, *address)
		}
	}
	return result, nil
}

func (m *memDB) GetAddress(id string) (*models.ShippingAddress, error) {
	address, ok := m.addresses[id]
	if !ok {
		return nil, fmt.Errorf("address not found")
	}
	return address, nil
}

func (m *memDB) AddAddress(address *models.ShippingAddress) error {
	m.addresses[address.AddressId] = address
	return nil
}

func (m *memDB) DeleteAddress(id string) error {
	delete(m.addresses, id)
	return nil
}

func (m *memDB) GetComments(productId string) ([]models.Comment, error) {
	var result []models.Comment
	for _, comment := range m.comments {
		if comment.ProductId == productId {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (m *memDB) AddComment(comment *models.Comment) error {
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *memDB) GetTotalRevenue() (int64, error) {
	var total int64
	for _, order := range m.orders {
		if order.Status == models.OrderStatusPaid || order.Status == models.OrderStatusDelivered {
			total += order.TotalPrice
		}
	}
	return total, nil
}

func (m *memDB) GetMonthlyRevenue() ([]models.MonthlyRevenue, error) {
	byMonth := make(map[[2]int]int64)
	for _, order := range m.orders {
		if order.Status != models.OrderStatusPaid && order.Status != models.OrderStatusDelivered {
			continue
		}
		key := [2]int{order.TimePaid.Year(), int(order.TimePaid.Month())}
		byMonth[key] += order.TotalPrice
	}
	var result []models.MonthlyRevenue
	for key, total := range byMonth {
		result = append(result, models.MonthlyRevenue{Year: key[0], Month: key[1], Total: total})
	}
	return result, nil
}

func (m *memDB) GetAverageOrderValue() (float64, error) {
	var total int64
	count := 0
	for _, order := range m.orders {
		if order.Status == models.OrderStatusPaid || order.Status == models.OrderStatusDelivered {
			total += order.TotalPrice
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(total) / float64(count), nil
}

func (m *memDB) GetSubscriptions() ([]models.UserSubscription, error) {
	result := make([]models.UserSubscription, 0, len(m.subscriptions))
	for _, subscription := range m.subscriptions {
		result = append(result, *subscription)
	}
	return result, nil
}

func (m *memDB) GetSubscription(id int) (*models.UserSubscription, error) {
	subscription, ok := m.subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("subscription not found")
	}
	return subscription, nil
}

func (m *memDB) AddSubscription(subscription *models.UserSubscription) error {
	m.subscriptions[subscription.UserID] = subscription
	return nil
}

func (m *memDB) DeleteSubscription(subscription *models.UserSubscription) error {
	delete(m.subscriptions, subscription.UserID)
	return nil
}

// nopLogger keeps handler tests quiet.
type nopLogger struct{}

func (nopLogger) FeatureEvent(string, string, string) {}
func (nopLogger) Debug(string)                        {}
func (nopLogger) Warn(string)                         {}
func (nopLogger) Error(string, error)                 {}
