package internal

import (
	"context"
	"fmt"
	"log"
	"moontech/internal/config"
	"moontech/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionLog           = "sys_log"
	collectionUsers         = "users"
	collectionProducts      = "products"
	collectionCategories    = "categories"
	collectionCarts         = "carts"
	collectionOrders        = "orders"
	collectionAddresses     = "shipping_addresses"
	collectionComments      = "comments"
	collectionSubscriptions = "subscriptions"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	err := connection.Disconnect(m.ctx)
	if err != nil {
		log.Println("mongodb disconnect error;", err)
	}
}

func (m *MongoDB) WriteLogMessage(data Data) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionLog)
	_, err = collection.InsertOne(m.ctx, data)
	if err != nil {
		return err
	}
	return nil
}

func (m *MongoDB) ReadLog() (interface{}, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var logMessages []SysLogMessage
	collection := connection.Database(m.database).Collection(collectionLog)
	filter := bson.D{}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}}).SetLimit(1000)
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &logMessages); err != nil {
		return nil, err
	}
	return logMessages, nil
}

func (m *MongoDB) GetUser(email string) (*models.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: email}}
	collection := connection.Database(m.database).Collection(collectionUsers)
	var user models.User
	err = collection.FindOne(m.ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *MongoDB) GetUserById(id string) (*models.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "user_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionUsers)
	var user models.User
	err = collection.FindOne(m.ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *MongoDB) AddUser(user *models.User) error {
	existedUser, _ := m.GetUser(user.Email)
	if existedUser != nil {
		return fmt.Errorf("email %s is already registered", user.Email)
	}
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	_, err = collection.InsertOne(m.ctx, user)
	return err
}

func (m *MongoDB) UpdateUser(user *models.User) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "user_id", Value: user.UserId}}
	update := bson.M{"$set": user}
	collection := connection.Database(m.database).Collection(collectionUsers)
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

func (m *MongoDB) GetProducts() ([]models.Product, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var products []models.Product
	collection := connection.Database(m.database).Collection(collectionProducts)
	filter := bson.D{}
	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (m *MongoDB) GetProduct(id string) (*models.Product, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "product_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionProducts)
	var product models.Product
	err = collection.FindOne(m.ctx, filter).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (m *MongoDB) AddProduct(product *models.Product) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionProducts)
	_, err = collection.InsertOne(m.ctx, product)
	return err
}

func (m *MongoDB) UpdateProduct(product *models.Product) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "product_id", Value: product.ProductId}}
	update := bson.M{"$set": product}
	collection := connection.Database(m.database).Collection(collectionProducts)
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

func (m *MongoDB) DeleteProduct(id string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "product_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionProducts)
	_, err = collection.DeleteOne(m.ctx, filter)
	return err
}

func (m *MongoDB) GetCategories() ([]models.Category, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var categories []models.Category
	collection := connection.Database(m.database).Collection(collectionCategories)
	filter := bson.D{}
	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (m *MongoDB) GetCategory(id string) (*models.Category, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "category_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionCategories)
	var category models.Category
	err = collection.FindOne(m.ctx, filter).Decode(&category)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (m *MongoDB) AddCategory(category *models.Category) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionCategories)
	_, err = collection.InsertOne(m.ctx, category)
	return err
}

func (m *MongoDB) UpdateCategory(category *models.Category) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "category_id", Value: category.CategoryId}}
	update := bson.M{"$set": category}
	collection := connection.Database(m.database).Collection(collectionCategories)
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

func (m *MongoDB) DeleteCategory(id string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "category_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionCategories)
	_, err = collection.DeleteOne(m.ctx, filter)
	return err
}

func (m *MongoDB) AddProductToCategory(categoryId, productId string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "category_id", Value: categoryId}}
	update := bson.M{"$push": bson.M{"products": productId}}
	collection := connection.Database(m.database).Collection(collectionCategories)
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

func (m *MongoDB) GetActiveCart(userId string) (*models.Cart, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "user_id", Value: userId}, {Key: "status", Value: models.CartStatusActive}}
	collection := connection.Database(m.database).Collection(collectionCarts)
	var cart models.Cart
	err = collection.FindOne(m.ctx, filter).Decode(&cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (m *MongoDB) AddCart(cart *models.Cart) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionCarts)
	_, err = collection.InsertOne(m.ctx, cart)
	return err
}

func (m *MongoDB) UpdateCart(cart *models.Cart) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "cart_id", Value: cart.CartId}}
	update := bson.M{"$set": cart}
	collection := connection.Database(m.database).Collection(collectionCarts)
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

func (m *MongoDB) GetOrders(userId string) ([]models.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var orders []models.Order
	filter := bson.D{{Key: "user_id", Value: userId}}
	opts := options.Find().SetSort(bson.D{{Key: "time_created", Value: -1}})
	collection := connection.Database(m.database).Collection(collectionOrders)
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (m *MongoDB) GetAllOrders() ([]models.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var orders []models.Order
	filter := bson.D{}
	opts := options.Find().SetSort(bson.D{{Key: "time_created", Value: -1}})
	collection := connection.Database(m.database).Collection(collectionOrders)
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (m *MongoDB) GetOrder(id string) (*models.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "order_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionOrders)
	var order models.Order
	err = collection.FindOne(m.ctx, filter).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoDB) GetOrderByTxnRef(txnRef string) (*models.Order, error) {
	// orders without a payment attempt carry a zero-value txn_ref; an empty
	// filter would match one of them at random
	if txnRef == "" {
		return nil, fmt.Errorf("empty transaction reference")
	}
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "txn_ref", Value: txnRef}}
	collection := connection.Database(m.database).Collection(collectionOrders)
	var order models.Order
	err = collection.FindOne(m.ctx, filter).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoDB) GetLastPendingOrder(userId string) (*models.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "user_id", Value: userId}, {Key: "status", Value: models.OrderStatusPending}}
	opts := options.FindOne().SetSort(bson.D{{Key: "time_created", Value: -1}})
	collection := connection.Database(m.database).Collection(collectionOrders)
	var order models.Order
	err = collection.FindOne(m.ctx, filter, opts).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *MongoDB) AddOrder(order *models.Order) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	_, err = collection.InsertOne(m.ctx, order)
	return err
}

func (m *MongoDB) UpdateOrder(order *models.Order) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "order_id", Value: order.OrderId}}
	update := bson.M{"$set": order}
	collection := connection.Database(m.database).Collection(collectionOrders)
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

func (m *MongoDB) DeletePendingOrders(userId string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "user_id", Value: userId}, {Key: "status", Value: models.OrderStatusPending}}
	collection := connection.Database(m.database).Collection(collectionOrders)
	_, err = collection.DeleteMany(m.ctx, filter)
	return err
}

func (m *MongoDB) GetAddresses(userId string) ([]models.ShippingAddress, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var addresses []models.ShippingAddress
	filter := bson.D{{Key: "user_id", Value: userId}}
	collection := connection.Database(m.database).Collection(collectionAddresses)
	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (m *MongoDB) GetAddress(id string) (*models.ShippingAddress, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "address_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionAddresses)
	var address models.ShippingAddress
	err = collection.FindOne(m.ctx, filter).Decode(&address)
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (m *MongoDB) AddAddress(address *models.ShippingAddress) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionAddresses)
	_, err = collection.InsertOne(m.ctx, address)
	return err
}

func (m *MongoDB) DeleteAddress(id string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "address_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionAddresses)
	_, err = collection.DeleteOne(m.ctx, filter)
	return err
}

func (m *MongoDB) GetComments(productId string) ([]models.Comment, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var comments []models.Comment
	filter := bson.D{{Key: "product_id", Value: productId}}
	opts := options.Find().SetSort(bson.D{{Key: "time_created", Value: -1}})
	collection := connection.Database(m.database).Collection(collectionComments)
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (m *MongoDB) AddComment(comment *models.Comment) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionComments)
	_, err = collection.InsertOne(m.ctx, comment)
	return err
}

type revenueResult struct {
	Total   int64   `bson:"total"`
	Average float64 `bson:"average"`
}

// GetTotalRevenue sums totals of all paid and delivered orders
func (m *MongoDB) GetTotalRevenue() (int64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{models.OrderStatusPaid, models.OrderStatusDelivered}}}}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_price"}}},
		}}},
	}
	cursor, err := collection.Aggregate(m.ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate total revenue: %v", err)
	}
	var results []revenueResult
	if err = cursor.All(m.ctx, &results); err != nil {
		return 0, fmt.Errorf("decode total revenue: %v", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// GetMonthlyRevenue returns paid order totals grouped by year and month
func (m *MongoDB) GetMonthlyRevenue() ([]models.MonthlyRevenue, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{models.OrderStatusPaid, models.OrderStatusDelivered}}}}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$time_paid"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$time_paid"}}},
			}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_price"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}
	type monthlyResult struct {
		Id struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Total int64 `bson:"total"`
	}
	cursor, err := collection.Aggregate(m.ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate monthly revenue: %v", err)
	}
	var results []monthlyResult
	if err = cursor.All(m.ctx, &results); err != nil {
		return nil, fmt.Errorf("decode monthly revenue: %v", err)
	}
	var revenue []models.MonthlyRevenue
	for _, r := range results {
		revenue = append(revenue, models.MonthlyRevenue{
			Year:  r.Id.Year,
			Month: r.Id.Month,
			Total: r.Total,
		})
	}
	return revenue, nil
}

// GetAverageOrderValue returns the average total of paid and delivered orders
func (m *MongoDB) GetAverageOrderValue() (float64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionOrders)
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{models.OrderStatusPaid, models.OrderStatusDelivered}}}}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$total_price"}}},
		}}},
	}
	cursor, err := collection.Aggregate(m.ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate average order value: %v", err)
	}
	var results []revenueResult
	if err = cursor.All(m.ctx, &results); err != nil {
		return 0, fmt.Errorf("decode average order value: %v", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Average, nil
}

// GetSubscriptions returns all subscriptions
func (m *MongoDB) GetSubscriptions() ([]models.UserSubscription, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{}
	collection := connection.Database(m.database).Collection(collectionSubscriptions)
	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, err
	}
	var subscriptions []models.UserSubscription
	if err = cursor.All(m.ctx, &subscriptions); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// GetSubscription returns a subscription by user id
func (m *MongoDB) GetSubscription(id int) (*models.UserSubscription, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "user_id", Value: id}}
	collection := connection.Database(m.database).Collection(collectionSubscriptions)
	var subscription models.UserSubscription
	err = collection.FindOne(m.ctx, filter).Decode(&subscription)
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// AddSubscription adds a new subscription
func (m *MongoDB) AddSubscription(subscription *models.UserSubscription) error {
	existedSubscription, _ := m.GetSubscription(subscription.UserID)
	if existedSubscription != nil {
		return fmt.Errorf("user is already subscribed")
	}
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionSubscriptions)
	_, err = collection.InsertOne(m.ctx, subscription)
	return err
}

// DeleteSubscription deletes a subscription
func (m *MongoDB) DeleteSubscription(subscription *models.UserSubscription) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "user_id", Value: subscription.UserID}}
	collection := connection.Database(m.database).Collection(collectionSubscriptions)
	_, err = collection.DeleteOne(m.ctx, filter)
	return err
}
