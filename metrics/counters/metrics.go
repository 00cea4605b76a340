package counters

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "store",
	Name:      "http_requests_total",
	Help:      "Total number of API requests by method and path.",
}, []string{"method", "path"})

var orderCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "store",
	Name:      "orders_total",
	Help:      "Total number of order state transitions.",
}, []string{"status"})

var paymentCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "store",
	Name:      "payment_callbacks_total",
	Help:      "Total number of payment gateway interactions by result.",
}, []string{"result"})

func CountRequest(method, path string) {
	if len(method) == 0 || len(path) == 0 {
		return
	}
	requestCounter.With(prometheus.Labels{"method": method, "path": path}).Inc()
}

func CountOrder(status string) {
	if len(status) == 0 {
		return
	}
	orderCounter.With(prometheus.Labels{"status": status}).Inc()
}

func CountPayment(result string) {
	if len(result) == 0 {
		return
	}
	paymentCounter.With(prometheus.Labels{"result": result}).Inc()
}
