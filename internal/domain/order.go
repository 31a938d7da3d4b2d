package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusCreated — заказ создан, оплата ещё не выполнена.
	OrderStatusCreated OrderStatus = "CREATED"
	// OrderStatusPaid — оплата подтверждена.
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusShipped — отгрузка начата, сток списан.
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusDelivered — заказ доставлен клиенту.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled — заказ отменён; терминальный статус.
	OrderStatusCancelled OrderStatus = "CANCELLED"
	// OrderStatusReturned — заказ возвращён; терминальный статус.
	OrderStatusReturned OrderStatus = "RETURNED"
)

// statusDescriptions — человекочитаемые описания статусов для уведомлений и API.
var statusDescriptions = map[OrderStatus]string{
	OrderStatusCreated:   "order created",
	OrderStatusPaid:      "payment completed",
	OrderStatusShipped:   "shipment started",
	OrderStatusDelivered: "delivery completed",
	OrderStatusCancelled: "order cancelled",
	OrderStatusReturned:  "return completed",
}

// AllStatuses возвращает полный закрытый набор статусов.
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusCreated,
		OrderStatusPaid,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusReturned,
	}
}

// Description возвращает описание статуса или пустую строку для неизвестного значения.
func (s OrderStatus) Description() string {
	return statusDescriptions[s]
}

// Valid проверяет, что статус входит в закрытый набор.
func (s OrderStatus) Valid() bool {
	_, ok := statusDescriptions[s]
	return ok
}

// Terminal сообщает, является ли статус терминальным: из него нет исходящих переходов.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusReturned
}

// Order агрегирует состояние заказа. Поле Status — единственный источник истины
// о текущем состоянии: движок переходов восстанавливается из него перед каждым событием.
type Order struct {
	ID            string
	ProductID     string
	Quantity      int32
	AmountMinor   int64 // сумма в минимальных денежных единицах (fixed scale)
	Status        OrderStatus
	CustomerEmail string
	PaymentMethod string
	PaymentRef    string // присваивается при захвате платежа
	RefundRef     string // присваивается при возврате средств
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Метки жизненного цикла: каждая проставляется ровно один раз и никогда не сбрасывается.
	PaidAt      *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
	RefundedAt  *time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ProductID == "" {
		errs = append(errs, ErrProductRequired)
	}
	if o.Quantity <= 0 {
		errs = append(errs, ErrQuantityInvalid)
	}
	if o.AmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}

	return errs
}

// StampStatusTime проставляет метку времени, соответствующую статусу, если она
// ещё не установлена. Вызывается движком на фазе commit, поэтому терминальные
// статусы получают метку даже когда цепочка действий её не проставила.
func (o *Order) StampStatusTime(status OrderStatus, now time.Time) {
	switch status {
	case OrderStatusPaid:
		if o.PaidAt == nil {
			o.PaidAt = &now
		}
	case OrderStatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	case OrderStatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
	case OrderStatusReturned:
		if o.RefundedAt == nil {
			o.RefundedAt = &now
		}
	}
}
