package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	otpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_requests_total",
			Help: "OTP send and verify requests by outcome.",
		},
		[]string{"result"},
	)

	deviceBlocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "device_blocks_total",
			Help: "Client IPs blocked for sending too many OTPs.",
		},
	)

	cartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart mutations by operation and outcome.",
		},
		[]string{"operation", "result"},
	)

	ordersPlacedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders placed by payment method.",
		},
		[]string{"payment_method"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Outbound notifications by channel and status.",
		},
		[]string{"channel", "status"},
	)
)

func RecordOTPRequest(result string) {
	otpRequestsTotal.WithLabelValues(result).Inc()
}

func RecordDeviceBlock() {
	deviceBlocksTotal.Inc()
}

func RecordCartOperation(operation, result string) {
	cartOperationsTotal.WithLabelValues(operation, result).Inc()
}

func RecordOrderPlaced(paymentMethod string) {
	ordersPlacedTotal.WithLabelValues(paymentMethod).Inc()
}

func RecordNotification(channel, status string) {
	notificationsTotal.WithLabelValues(channel, status).Inc()
}
