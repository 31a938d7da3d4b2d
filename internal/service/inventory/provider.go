// Package inventory содержит провайдера складских остатков. Реальная
// интеграция со складом подключается заменой StubProvider.
package inventory

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// StubProvider — заглушка склада: списание всегда успешно.
type StubProvider struct {
	logger *log.Entry

	// DeductErr позволяет смоделировать недоступность склада.
	DeductErr error
}

// NewStubProvider создаёт заглушку склада.
func NewStubProvider(logger *log.Entry) *StubProvider {
	if logger == nil {
		logger = log.New().WithField("component", "inventory-provider")
	}
	return &StubProvider{logger: logger}
}

// Deduct списывает сток под отгруженный заказ.
func (p *StubProvider) Deduct(orderID, productID string, qty int32) error {
	if p.DeductErr != nil {
		return p.DeductErr
	}

	p.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"product_id": productID,
		"qty":        qty,
	}).Info("stock deducted (stub)")
	return nil
}

var _ domain.InventoryService = (*StubProvider)(nil)
