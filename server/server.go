package server

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"moontech/handlers"
	"moontech/internal"
	"moontech/internal/config"
	"moontech/metrics/counters"
	"moontech/models"
	"moontech/payment"
	"net"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	logger     internal.LogHandler

	auth       *handlers.Auth
	products   *handlers.Products
	categories *handlers.Categories
	carts      *handlers.Carts
	orders     *handlers.Orders
	addresses  *handlers.Addresses
	comments   *handlers.Comments
	revenue    *handlers.Revenue
	feed       *Feed
}

type securedHandle func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *handlers.Claims)

func NewServer(conf *config.Config, logger internal.LogHandler) *Server {
	server := &Server{
		conf:   conf,
		logger: logger,
	}
	return server
}

func (s *Server) SetAuth(auth *handlers.Auth)                   { s.auth = auth }
func (s *Server) SetProducts(products *handlers.Products)       { s.products = products }
func (s *Server) SetCategories(categories *handlers.Categories) { s.categories = categories }
func (s *Server) SetCarts(carts *handlers.Carts)                { s.carts = carts }
func (s *Server) SetOrders(orders *handlers.Orders)             { s.orders = orders }
func (s *Server) SetAddresses(addresses *handlers.Addresses)    { s.addresses = addresses }
func (s *Server) SetComments(comments *handlers.Comments)       { s.comments = comments }
func (s *Server) SetRevenue(revenue *handlers.Revenue)          { s.revenue = revenue }
func (s *Server) SetFeed(feed *Feed)                            { s.feed = feed }

func (s *Server) Register(router *httprouter.Router) {
	router.POST("/api/v1/authen/register", s.track(s.handleRegister))
	router.POST("/api/v1/authen/login", s.track(s.handleLogin))

	router.GET("/api/v1/products", s.track(s.handleProducts))
	router.POST("/api/v1/products", s.track(s.admin(s.handleAddProduct)))
	router.PUT("/api/v1/products/:productId", s.track(s.admin(s.handleUpdateProduct)))
	router.DELETE("/api/v1/products/:productId", s.track(s.admin(s.handleDeleteProduct)))

	router.GET("/api/v1/products/:productId/comments", s.track(s.handleComments))
	router.POST("/api/v1/products/:productId/comments", s.track(s.secured(s.handleAddComment)))

	router.GET("/api/v1/categories", s.track(s.handleCategories))
	router.POST("/api/v1/categories", s.track(s.admin(s.handleAddCategory)))
	router.PUT("/api/v1/categories/:categoryId", s.track(s.admin(s.handleUpdateCategory)))
	router.DELETE("/api/v1/categories/:categoryId", s.track(s.admin(s.handleDeleteCategory)))

	router.GET("/api/v1/carts", s.track(s.secured(s.handleCart)))
	router.POST("/api/v1/carts", s.track(s.secured(s.handleAddCartItem)))
	router.PUT("/api/v1/carts/:itemId", s.track(s.secured(s.handleUpdateCartItem)))
	router.DELETE("/api/v1/carts/:itemId", s.track(s.secured(s.handleRemoveCartItem)))

	router.GET("/api/v1/orders", s.track(s.secured(s.handleOrders)))
	router.POST("/api/v1/orders", s.track(s.secured(s.handleAddOrder)))
	router.DELETE("/api/v1/orders", s.track(s.secured(s.handleDeleteOrders)))
	router.GET("/api/v1/orders/all", s.track(s.admin(s.handleAllOrders)))
	router.PUT("/api/v1/orders/:orderId", s.track(s.admin(s.handleUpdateOrder)))
	router.POST("/api/v1/orders/create-payment", s.track(s.secured(s.handleCreatePayment)))
	router.GET("/api/v1/orders/vnpay-return", s.track(s.handlePaymentReturn))

	router.GET("/api/v1/addresses", s.track(s.secured(s.handleAddresses)))
	router.POST("/api/v1/addresses", s.track(s.secured(s.handleAddAddress)))
	router.DELETE("/api/v1/addresses/:addressId", s.track(s.secured(s.handleDeleteAddress)))

	router.GET("/api/v1/revenue/total-revenue", s.track(s.admin(s.handleTotalRevenue)))
	router.GET("/api/v1/revenue/monthly-revenue", s.track(s.admin(s.handleMonthlyRevenue)))
	router.GET("/api/v1/revenue/average-revenue", s.track(s.admin(s.handleAverageRevenue)))

	router.GET("/ws/orders", s.track(s.admin(s.handleOrderFeed)))
}

func (s *Server) Start() error {
	if s.conf == nil {
		return errors.New("configuration not loaded")
	}
	router := httprouter.New()
	s.Register(router)
	s.httpServer = &http.Server{
		Handler: router,
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	s.logger.Debug(fmt.Sprintf("starting server on %s", serverAddress))
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}
	if s.conf.Listen.TLS {
		s.httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		err = s.httpServer.Serve(listener)
	}
	return err
}

func (s *Server) track(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		counters.CountRequest(r.Method, r.URL.Path)
		next(w, r, ps)
	}
}

func (s *Server) secured(next securedHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := s.tokenClaims(r)
		if err != nil {
			s.sendError(w, handlers.ErrUnauthorized)
			return
		}
		next(w, r, ps, claims)
	}
}

func (s *Server) admin(next securedHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := s.tokenClaims(r)
		if err != nil {
			s.sendError(w, handlers.ErrUnauthorized)
			return
		}
		if !claims.IsAdmin {
			s.sendError(w, handlers.ErrForbidden)
			return
		}
		next(w, r, ps, claims)
	}
}

// tokenClaims reads the bearer token from the Authorization header, or from
// the token query parameter for websocket clients which cannot set headers.
func (s *Server) tokenClaims(r *http.Request) (*handlers.Claims, error) {
	token := ""
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, handlers.ErrUnauthorized
	}
	return s.auth.VerifyToken(token)
}

func (s *Server) sendJson(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) sendError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var validationErr *payment.ValidationError
	var configErr *payment.ConfigError
	switch {
	case errors.Is(err, handlers.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, handlers.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, handlers.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, handlers.ErrInvalid), errors.Is(err, handlers.ErrDuplicate):
		status = http.StatusBadRequest
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &configErr):
		// operator problem, never detailed to the client
		s.logger.Error("gateway configuration", err)
		s.sendJson(w, status, errorResponse{Error: "payment gateway unavailable"})
		return
	}
	s.sendJson(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		s.sendError(w, fmt.Errorf("%w: %s", handlers.ErrInvalid, err))
		return false
	}
	return true
}

// clientIP resolves the caller address, preferring the forwarding header
// set by the front proxy.
func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req handlers.RegisterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	user, err := s.auth.Register(&req)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, map[string]string{"accessToken": token})
}

func (s *Server) handleProducts(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	products, err := s.products.All()
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, products)
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *handlers.Claims) {
	var product models.Product
	if !s.decodeBody(w, r, &product) {
		return
	}
	result, err := s.products.Add(&product)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, result)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params, _ *handlers.Claims) {
	var product models.Product
	if !s.decodeBody(w, r, &product) {
		return
	}
	result, err := s.products.Update(ps.ByName("productId"), &product)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, result)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, _ *handlers.Claims) {
	if err := s.products.Delete(ps.ByName("productId")); err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, nil)
}

func (s *Server) handleComments(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	comments, err := s.comments.ProductComments(ps.ByName("productId"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, comments)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *handlers.Claims) {
	var req struct {
		Text   string `json:"text"`
		Rating int    `json:"rating"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	comment, err := s.comments.Add(claims.UserId, claims.Email, ps.ByName("productId"), req.Text, req.Rating)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, comment)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	categories, err := s.categories.All()
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, categories)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *handlers.Claims) {
	var category models.Category
	if !s.decodeBody(w, r, &category) {
		return
	}
	result, err := s.categories.Add(&category)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, result)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params, _ *handlers.Claims) {
	var category models.Category
	if !s.decodeBody(w, r, &category) {
		return
	}
	result, err := s.categories.Update(ps.ByName("categoryId"), &category)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, result)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, _ *handlers.Claims) {
	if err := s.categories.Delete(ps.ByName("categoryId")); err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, nil)
}

func (s *Server) handleCart(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, claims *handlers.Claims) {
	cart, err := s.carts.UserCart(claims.UserId)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, cart)
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *handlers.Claims) {
	var req struct {
		ProductId string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	cart, err := s.carts.AddItem(claims.UserId, req.ProductId, req.Quantity)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, cart)
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *handlers.Claims) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	cart, err := s.carts.UpdateItem(claims.UserId, ps.ByName("itemId"), req.Quantity)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, cart)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, claims *handlers.Claims) {
	cart, err := s.carts.RemoveItem(claims.UserId, ps.ByName("itemId"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, cart)
}

func (s *Server) handleOrders(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, claims *handlers.Claims) {
	orders, err := s.orders.UserOrders(claims.UserId)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, orders)
}

func (s *Server) handleAllOrders(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, _ *handlers.Claims) {
	orders, err := s.orders.AllOrders()
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, orders)
}

func (s *Server) handleAddOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *handlers.Claims) {
	var req struct {
		AddressId string `json:"address_id"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	order, err := s.orders.Create(claims.UserId, req.AddressId)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, order)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params, _ *handlers.Claims) {
	var req struct {
		Status string `json:"status"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	order, err := s.orders.UpdateStatus(ps.ByName("orderId"), req.Status)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, order)
}

func (s *Server) handleDeleteOrders(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, claims *handlers.Claims) {
	if err := s.orders.DeletePending(claims.UserId); err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, nil)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *handlers.Claims) {
	var req struct {
		Amount   int64  `json:"amount"`
		BankCode string `json:"bankCode"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	paymentUrl, err := s.orders.CreatePayment(claims.UserId, req.Amount, req.BankCode, clientIP(r))
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, map[string]string{"url": paymentUrl})
}

func (s *Server) handlePaymentReturn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	result := s.orders.PaymentReturn(r.URL.Query())
	if !result.Verified {
		s.sendJson(w, http.StatusBadRequest, errorResponse{Error: "invalid or tampered payment response"})
		return
	}
	s.sendJson(w, http.StatusOK, result)
}

func (s *Server) handleAddresses(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, claims *handlers.Claims) {
	addresses, err := s.addresses.UserAddresses(claims.UserId)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, addresses)
}

func (s *Server) handleAddAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *handlers.Claims) {
	var address models.ShippingAddress
	if !s.decodeBody(w, r, &address) {
		return
	}
	result, err := s.addresses.Add(claims.UserId, &address)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, result)
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, claims *handlers.Claims) {
	if err := s.addresses.Delete(claims.UserId, ps.ByName("addressId")); err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, nil)
}

func (s *Server) handleTotalRevenue(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, _ *handlers.Claims) {
	total, err := s.revenue.Total()
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, map[string]int64{"total": total})
}

func (s *Server) handleMonthlyRevenue(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, _ *handlers.Claims) {
	monthly, err := s.revenue.Monthly()
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, monthly)
}

func (s *Server) handleAverageRevenue(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, _ *handlers.Claims) {
	average, err := s.revenue.AverageOrderValue()
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.sendJson(w, http.StatusOK, map[string]float64{"average": average})
}

func (s *Server) handleOrderFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *handlers.Claims) {
	s.feed.Handle(w, r)
}
