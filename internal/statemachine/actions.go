package statemachine

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Action — именованный шаг цепочки перехода. Run мутирует заказ через Context
// и возвращает ошибку, если побочный эффект не удался; ошибка первого упавшего
// шага прерывает цепочку.
type Action struct {
	Name string
	Run  func(ctx *Context) error
}

// Actions строит именованные действия таблицы переходов поверх внешних
// сервисов. Все побочные эффекты переходов проходят через этот тип.
type Actions struct {
	payments  domain.PaymentService
	inventory domain.InventoryService
	notifier  domain.Notifier
	logger    *log.Entry
}

// NewActions создаёт фабрику действий.
func NewActions(payments domain.PaymentService, inventory domain.InventoryService, notifier domain.Notifier, logger *log.Entry) *Actions {
	if logger == nil {
		logger = log.New().WithField("component", "statemachine-actions")
	}
	return &Actions{
		payments:  payments,
		inventory: inventory,
		notifier:  notifier,
		logger:    logger,
	}
}

// CapturePayment списывает средства через платёжный сервис и фиксирует
// платёжную ссылку и метку оплаты в заказе.
func (a *Actions) CapturePayment() Action {
	return Action{
		Name: "capture_payment",
		Run: func(ctx *Context) error {
			ref, err := a.payments.Capture(ctx.Order.ID, ctx.Order.AmountMinor, ctx.Order.PaymentMethod)
			if err != nil {
				return fmt.Errorf("capture payment for order %s: %w", ctx.Order.ID, err)
			}

			ctx.Order.PaymentRef = ref
			ctx.Order.StampStatusTime(domain.OrderStatusPaid, ctx.Now)

			a.logger.WithFields(log.Fields{
				"order_id":    ctx.Order.ID,
				"payment_ref": ref,
			}).Info("payment captured")
			return nil
		},
	}
}

// DeductStock списывает складской остаток под отгрузку и фиксирует метку отгрузки.
func (a *Actions) DeductStock() Action {
	return Action{
		Name: "deduct_stock",
		Run: func(ctx *Context) error {
			if err := a.inventory.Deduct(ctx.Order.ID, ctx.Order.ProductID, ctx.Order.Quantity); err != nil {
				return fmt.Errorf("deduct stock for order %s: %w", ctx.Order.ID, err)
			}

			ctx.Order.StampStatusTime(domain.OrderStatusShipped, ctx.Now)

			a.logger.WithFields(log.Fields{
				"order_id":   ctx.Order.ID,
				"product_id": ctx.Order.ProductID,
				"qty":        ctx.Order.Quantity,
			}).Info("stock deducted")
			return nil
		},
	}
}

// MarkDelivered фиксирует метку доставки.
func (a *Actions) MarkDelivered() Action {
	return Action{
		Name: "mark_delivered",
		Run: func(ctx *Context) error {
			ctx.Order.StampStatusTime(domain.OrderStatusDelivered, ctx.Now)

			a.logger.WithField("order_id", ctx.Order.ID).Info("order delivered")
			return nil
		},
	}
}

// Refund возвращает средства клиенту и фиксирует ссылку возврата.
// Используется при отмене оплаченного заказа и при возврате доставленного.
func (a *Actions) Refund() Action {
	return Action{
		Name: "refund",
		Run: func(ctx *Context) error {
			ref, err := a.payments.Refund(ctx.Order.ID, ctx.Order.AmountMinor)
			if err != nil {
				return fmt.Errorf("refund order %s: %w", ctx.Order.ID, err)
			}

			ctx.Order.RefundRef = ref

			a.logger.WithFields(log.Fields{
				"order_id":   ctx.Order.ID,
				"refund_ref": ref,
			}).Info("payment refunded")
			return nil
		},
	}
}

// Notify отправляет клиенту уведомление о смене статуса. Текст сообщения
// строится по целевому статусу правила.
func (a *Actions) Notify() Action {
	return Action{
		Name: "notify",
		Run: func(ctx *Context) error {
			msg := fmt.Sprintf("order status changed to %s (%s)", ctx.To, ctx.To.Description())
			if err := a.notifier.Notify(*ctx.Order, msg); err != nil {
				return fmt.Errorf("notify about order %s: %w", ctx.Order.ID, err)
			}
			return nil
		},
	}
}

// HandleError — обработчик ошибок правила: логирует упавшее действие.
// Вызывается движком после прерывания цепочки; ошибка уже лежит в ctx.Err.
func (a *Actions) HandleError(ctx *Context) {
	a.logger.WithFields(log.Fields{
		"order_id": ctx.Order.ID,
		"event":    ctx.Event,
		"from":     ctx.From,
		"to":       ctx.To,
	}).WithError(ctx.Err).Error("transition action failed")
}
