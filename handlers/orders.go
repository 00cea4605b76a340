package handlers

import (
	"fmt"
	"moontech/internal"
	"moontech/metrics/counters"
	"moontech/models"
	"moontech/payment"
	"moontech/utility"
	"net/url"
	"time"
)

type Orders struct {
	database  internal.Database
	logger    internal.LogHandler
	gateway   *payment.VNPay
	listeners []internal.EventHandler
}

// PaymentResult is the outcome of a gateway return callback. Verified and
// Paid are orthogonal: a callback can carry an authentic signature and still
// report a declined payment.
type PaymentResult struct {
	Verified     bool   `json:"verified"`
	Paid         bool   `json:"paid"`
	TxnRef       string `json:"txn_ref"`
	ResponseCode string `json:"response_code"`
	OrderId      string `json:"order_id,omitempty"`
}

func NewOrders() *Orders {
	return &Orders{}
}

func (o *Orders) SetDatabase(database internal.Database) {
	o.database = database
}

func (o *Orders) SetLogger(logger internal.LogHandler) {
	o.logger = logger
}

func (o *Orders) SetPaymentGateway(gateway *payment.VNPay) {
	o.gateway = gateway
}

func (o *Orders) AddEventListener(handler internal.EventHandler) {
	o.listeners = append(o.listeners, handler)
}

func (o *Orders) Create(userId, addressId string) (*models.Order, error) {
	cart, err := o.database.GetActiveCart(userId)
	if err != nil || cart == nil || len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: no active cart to order from", ErrNotFound)
	}
	address, err := o.database.GetAddress(addressId)
	if err != nil {
		return nil, fmt.Errorf("%w: address %s", ErrNotFound, addressId)
	}
	if address.UserId != userId {
		return nil, ErrForbidden
	}

	var total int64
	for _, item := range cart.Items {
		product, err := o.database.GetProduct(item.ProductId)
		if err != nil {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, item.ProductId)
		}
		total += product.SalePrice() * int64(item.Quantity)
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: order total must be positive", ErrInvalid)
	}

	order := &models.Order{
		OrderId:     utility.NewUUID(),
		UserId:      userId,
		CartId:      cart.CartId,
		AddressId:   addressId,
		Status:      models.OrderStatusPending,
		TotalPrice:  total,
		TimeCreated: time.Now().UTC(),
	}
	if err = o.database.AddOrder(order); err != nil {
		return nil, err
	}
	cart.Status = models.CartStatusDeactive
	if err = o.database.UpdateCart(cart); err != nil {
		o.logger.Warn(fmt.Sprintf("deactivate cart %s: %s", cart.CartId, err))
	}

	counters.CountOrder(models.OrderStatusPending)
	o.logger.FeatureEvent("CreateOrder", userId, fmt.Sprintf("order %s total %d", order.OrderId, order.TotalPrice))
	o.emit("created", order, "")
	return order, nil
}

func (o *Orders) UserOrders(userId string) ([]models.Order, error) {
	return o.database.GetOrders(userId)
}

func (o *Orders) AllOrders() ([]models.Order, error) {
	return o.database.GetAllOrders()
}

func (o *Orders) UpdateStatus(orderId, status string) (*models.Order, error) {
	switch status {
	case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusDelivered:
	default:
		return nil, fmt.Errorf("%w: unknown order status %s", ErrInvalid, status)
	}
	order, err := o.database.GetOrder(orderId)
	if err != nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderId)
	}
	order.Status = status
	if status == models.OrderStatusPaid && order.TimePaid.IsZero() {
		order.TimePaid = time.Now().UTC()
	}
	if err = o.database.UpdateOrder(order); err != nil {
		return nil, err
	}
	counters.CountOrder(status)
	return order, nil
}

func (o *Orders) DeletePending(userId string) error {
	return o.database.DeletePendingOrders(userId)
}

// CreatePayment builds the signed gateway redirect URL for the caller's
// checkout amount and remembers the transaction reference on the newest
// pending order, so the return callback can be correlated back to it.
func (o *Orders) CreatePayment(userId string, amount int64, bankCode, ipAddr string) (string, error) {
	paymentUrl, txnRef, err := o.gateway.PaymentURL(amount, bankCode, ipAddr)
	if err != nil {
		return "", err
	}
	order, err := o.database.GetLastPendingOrder(userId)
	if err == nil && order != nil {
		order.TxnRef = txnRef
		if err = o.database.UpdateOrder(order); err != nil {
			o.logger.Warn(fmt.Sprintf("store txn ref %s on order %s: %s", txnRef, order.OrderId, err))
		}
	}
	counters.CountPayment("created")
	o.logger.FeatureEvent("CreatePayment", userId, fmt.Sprintf("payment url created for txn %s", txnRef))
	return paymentUrl, nil
}

// PaymentReturn handles the gateway redirect callback. Signature
// verification is the sole gate for trusting the parameters; the outcome
// code is inspected only after the callback proves authentic, and only a
// "00" outcome advances the matched order to paid.
func (o *Orders) PaymentReturn(values url.Values) *PaymentResult {
	result := &PaymentResult{
		TxnRef:       values.Get(payment.KeyTxnRef),
		ResponseCode: values.Get(payment.KeyResponseCode),
	}

	if !o.gateway.VerifyCallback(values) {
		counters.CountPayment("verification_failed")
		o.logger.Warn(fmt.Sprintf("payment callback rejected: invalid or missing signature, txn %s", result.TxnRef))
		return result
	}
	result.Verified = true

	var order *models.Order
	if result.TxnRef == "" {
		o.logger.Warn("payment callback without transaction reference")
	} else if order, _ = o.database.GetOrderByTxnRef(result.TxnRef); order == nil {
		o.logger.Warn(fmt.Sprintf("payment callback for unknown txn %s", result.TxnRef))
	}

	if result.ResponseCode != payment.ResponseCodeSuccess {
		counters.CountPayment("declined")
		o.logger.FeatureEvent("PaymentReturn", "", fmt.Sprintf("txn %s declined with code %s", result.TxnRef, result.ResponseCode))
		if order != nil {
			o.emit("payment_failed", order, fmt.Sprintf("gateway response code %s", result.ResponseCode))
		}
		return result
	}

	if order == nil {
		counters.CountPayment("unmatched")
		return result
	}
	result.OrderId = order.OrderId

	switch order.Status {
	case models.OrderStatusPending:
		order.Status = models.OrderStatusPaid
		order.TimePaid = time.Now().UTC()
		if err := o.database.UpdateOrder(order); err != nil {
			o.logger.Error(fmt.Sprintf("mark order %s paid", order.OrderId), err)
			return result
		}
		result.Paid = true
		counters.CountPayment("success")
		counters.CountOrder(models.OrderStatusPaid)
		o.logger.FeatureEvent("PaymentReturn", order.UserId, fmt.Sprintf("order %s paid, txn %s", order.OrderId, result.TxnRef))
		o.emit("paid", order, "")
	case models.OrderStatusPaid, models.OrderStatusDelivered:
		// re-delivered callback, verdict stays the same
		result.Paid = true
	}
	return result
}

func (o *Orders) emit(eventType string, order *models.Order, info string) {
	event := &internal.OrderEvent{
		Type:       eventType,
		OrderId:    order.OrderId,
		UserId:     order.UserId,
		TxnRef:     order.TxnRef,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		Info:       info,
		Time:       time.Now().UTC(),
	}
	for _, listener := range o.listeners {
		switch eventType {
		case "created":
			listener.OnOrderCreated(event)
		case "paid":
			listener.OnOrderPaid(event)
		case "payment_failed":
			listener.OnPaymentFailed(event)
		}
	}
}
