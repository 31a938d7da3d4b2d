package http

import (
	"time"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/service/order"
)

type createOrderRequest struct {
	ProductID     string `json:"product_id"`
	Quantity      int32  `json:"quantity"`
	AmountMinor   int64  `json:"amount_minor"`
	CustomerEmail string `json:"customer_email"`
	PaymentMethod string `json:"payment_method"`
}

func (r createOrderRequest) toInput() order.CreateOrderInput {
	return order.CreateOrderInput{
		ProductID:     r.ProductID,
		Quantity:      r.Quantity,
		AmountMinor:   r.AmountMinor,
		CustomerEmail: r.CustomerEmail,
		PaymentMethod: r.PaymentMethod,
	}
}

type orderResponse struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product_id"`
	Quantity          int32      `json:"quantity"`
	AmountMinor       int64      `json:"amount_minor"`
	Status            string     `json:"status"`
	StatusDescription string     `json:"status_description"`
	CustomerEmail     string     `json:"customer_email,omitempty"`
	PaymentMethod     string     `json:"payment_method,omitempty"`
	PaymentRef        string     `json:"payment_ref,omitempty"`
	RefundRef         string     `json:"refund_ref,omitempty"`
	Version           int64      `json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	ShippedAt         *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:                o.ID,
		ProductID:         o.ProductID,
		Quantity:          o.Quantity,
		AmountMinor:       o.AmountMinor,
		Status:            string(o.Status),
		StatusDescription: o.Status.Description(),
		CustomerEmail:     o.CustomerEmail,
		PaymentMethod:     o.PaymentMethod,
		PaymentRef:        o.PaymentRef,
		RefundRef:         o.RefundRef,
		Version:           o.Version,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		PaidAt:            o.PaidAt,
		ShippedAt:         o.ShippedAt,
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
		RefundedAt:        o.RefundedAt,
	}
}

type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type availableEvent struct {
	Event       string `json:"event"`
	Description string `json:"description"`
}

type availableEventsResponse struct {
	OrderID string           `json:"order_id"`
	Status  string           `json:"status"`
	Events  []availableEvent `json:"events"`
}
