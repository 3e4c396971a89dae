package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_messages_received_total",
		Help: "Inbound WhatsApp messages by event kind",
	}, []string{"kind"})

	MessagesDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_messages_duplicate_total",
		Help: "Inbound messages dropped as redeliveries",
	})

	MessagesIgnoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_messages_ignored_total",
		Help: "Inbound messages of unsupported types",
	}, []string{"type"})

	StateTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_state_transitions_total",
		Help: "Conversation transitions by source and target state",
	}, []string{"from", "to"})

	DispatchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_dispatch_errors_total",
		Help: "Events that hit an unknown state or a panic",
	}, []string{"reason"})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order placements",
	}, []string{"reason"})

	OrderValueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_value_minor_units_total",
		Help: "Sum of placed order totals in minor currency units",
	})

	OrderPlacementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_placement_latency_seconds",
		Help:    "Latency of storing an order",
		Buckets: prometheus.DefBuckets,
	})

	TicketsSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tickets_submitted_total",
		Help: "Support tickets stored, by topic",
	}, []string{"topic"})

	TicketsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tickets_failed_total",
		Help: "Support tickets that could not be stored",
	})

	OutboundSendFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_outbound_send_failures_total",
		Help: "Outbound messages the transport rejected, by kind",
	}, []string{"kind"})

	InvoiceFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_failures_total",
		Help: "Invoices that could not be generated or delivered",
	}, []string{"stage"})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Order status changes applied, by new status and source",
	}, []string{"status", "source"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
