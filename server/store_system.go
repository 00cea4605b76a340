package server

import (
	"fmt"
	"log"
	"moontech/handlers"
	"moontech/internal"
	"moontech/internal/config"
	"moontech/metrics"
	"moontech/payment"
	"moontech/telegram"
	"time"
)

type StoreSystem struct {
	conf   *config.Config
	server *Server
	logger *internal.Logger
}

func NewStoreSystem(conf *config.Config) (*StoreSystem, error) {
	storeSystem := StoreSystem{conf: conf}

	location, err := time.LoadLocation(conf.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone initialization failed: %s", err)
	}
	log.Println("time zone set to", location.String())

	logger := internal.NewLogger(location)
	logger.SetDebugMode(conf.IsDebug)
	storeSystem.logger = logger

	// the storefront cannot serve a single request without its store
	if !conf.Mongo.Enabled {
		return nil, fmt.Errorf("mongodb is disabled in configuration")
	}
	mongo, err := internal.NewMongoClient(conf)
	if err != nil {
		return nil, fmt.Errorf("mongodb setup failed: %s", err)
	}
	var database internal.Database = mongo
	logger.SetDatabase(database)
	log.Println("mongodb is configured and enabled")

	gateway, err := payment.NewVNPay(conf, location)
	if err != nil {
		return nil, fmt.Errorf("payment gateway setup failed: %s", err)
	}

	auth, err := handlers.NewAuth(conf)
	if err != nil {
		return nil, fmt.Errorf("auth setup failed: %s", err)
	}
	auth.SetDatabase(database)
	auth.SetLogger(logger)

	products := handlers.NewProducts()
	products.SetDatabase(database)
	products.SetLogger(logger)

	categories := handlers.NewCategories()
	categories.SetDatabase(database)
	categories.SetLogger(logger)

	carts := handlers.NewCarts()
	carts.SetDatabase(database)
	carts.SetLogger(logger)

	addresses := handlers.NewAddresses()
	addresses.SetDatabase(database)
	addresses.SetLogger(logger)

	comments := handlers.NewComments()
	comments.SetDatabase(database)
	comments.SetLogger(logger)

	revenue := handlers.NewRevenue()
	revenue.SetDatabase(database)

	orders := handlers.NewOrders()
	orders.SetDatabase(database)
	orders.SetLogger(logger)
	orders.SetPaymentGateway(gateway)

	feed := NewFeed(logger)
	orders.AddEventListener(feed)

	if conf.Telegram.Enabled {
		bot, err := telegram.NewBot(conf.Telegram.ApiKey)
		if err != nil {
			logger.Error("telegram bot setup failed", err)
		} else {
			bot.SetDatabase(database)
			bot.Start()
			orders.AddEventListener(bot)
			log.Println("telegram bot is configured and enabled")
		}
	}

	server := NewServer(conf, logger)
	server.SetAuth(auth)
	server.SetProducts(products)
	server.SetCategories(categories)
	server.SetCarts(carts)
	server.SetOrders(orders)
	server.SetAddresses(addresses)
	server.SetComments(comments)
	server.SetRevenue(revenue)
	server.SetFeed(feed)
	storeSystem.server = server

	return &storeSystem, nil
}

func (s *StoreSystem) Start() {
	go func() {
		if err := metrics.Listen(s.conf); err != nil {
			s.logger.Error("metrics server stopped", err)
		}
	}()
	go func() {
		if err := s.server.Start(); err != nil {
			s.logger.Error("server stopped", err)
		}
	}()
	select {}
}
