package statemachine

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// GuardFunc — чистый предикат над снимком заказа. Guard не мутирует заказ и
// не возвращает ошибок: бизнес-неготовность перехода выражается через false.
type GuardFunc func(order *domain.Order) bool

// Guard связывает предикат с именем для диагностики отказов.
type Guard struct {
	Name  string
	Check GuardFunc
}

// Guards — набор guard-предикатов таблицы переходов.
type Guards struct {
	logger *log.Entry
}

// NewGuards создаёт набор guard-предикатов.
func NewGuards(logger *log.Entry) *Guards {
	if logger == nil {
		logger = log.New().WithField("component", "statemachine-guards")
	}
	return &Guards{logger: logger}
}

// PaymentValid допускает оплату, если сумма строго положительна
// и указан способ оплаты.
func (g *Guards) PaymentValid() Guard {
	return Guard{
		Name: "payment_valid",
		Check: func(order *domain.Order) bool {
			if order.AmountMinor <= 0 {
				g.logger.WithFields(log.Fields{
					"order_id":     order.ID,
					"amount_minor": order.AmountMinor,
				}).Warn("payment guard denied: non-positive amount")
				return false
			}
			if strings.TrimSpace(order.PaymentMethod) == "" {
				g.logger.WithField("order_id", order.ID).Warn("payment guard denied: payment method is not set")
				return false
			}
			return true
		},
	}
}

// StockAvailable — заглушка проверки остатков: всегда true.
// Реальная проверка склада подключается заменой этого guard без правок таблицы.
func (g *Guards) StockAvailable() Guard {
	return Guard{
		Name: "stock_available",
		Check: func(order *domain.Order) bool {
			g.logger.WithFields(log.Fields{
				"order_id":   order.ID,
				"product_id": order.ProductID,
				"qty":        order.Quantity,
			}).Debug("stock guard passed (stub)")
			return true
		},
	}
}

// Cancellable допускает отмену только до начала отгрузки:
// окно закрывается в момент установки ShippedAt.
func (g *Guards) Cancellable() Guard {
	return Guard{
		Name: "cancellable",
		Check: func(order *domain.Order) bool {
			if order.ShippedAt != nil {
				g.logger.WithFields(log.Fields{
					"order_id":   order.ID,
					"shipped_at": order.ShippedAt,
				}).Warn("cancel guard denied: shipment already started")
				return false
			}
			return true
		},
	}
}

// Returnable — заглушка проверки окна возврата: всегда true.
// Место для реального правила вида «не позже N дней после доставки».
func (g *Guards) Returnable() Guard {
	return Guard{
		Name: "returnable",
		Check: func(order *domain.Order) bool {
			g.logger.WithField("order_id", order.ID).Debug("return guard passed (stub)")
			return true
		},
	}
}
