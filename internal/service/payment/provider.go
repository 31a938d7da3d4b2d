// Package payment содержит провайдера платежей. Реальная интеграция
// с платёжным шлюзом подключается заменой StubProvider без изменений движка.
package payment

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/idgen"
)

// StubProvider — заглушка платёжного провайдера: всегда успешно списывает
// и возвращает средства, генерируя платёжные ссылки локально.
type StubProvider struct {
	logger *log.Entry

	// CaptureErr и RefundErr позволяют смоделировать отказ провайдера.
	CaptureErr error
	RefundErr  error
}

// NewStubProvider создаёт заглушку провайдера.
func NewStubProvider(logger *log.Entry) *StubProvider {
	if logger == nil {
		logger = log.New().WithField("component", "payment-provider")
	}
	return &StubProvider{logger: logger}
}

// Capture списывает средства и возвращает платёжную ссылку.
func (p *StubProvider) Capture(orderID string, amountMinor int64, method string) (string, error) {
	if p.CaptureErr != nil {
		return "", p.CaptureErr
	}
	if amountMinor <= 0 {
		return "", domain.ErrPaymentDeclined
	}

	ref := idgen.PaymentRef()
	p.logger.WithFields(log.Fields{
		"order_id":     orderID,
		"amount_minor": amountMinor,
		"method":       method,
		"payment_ref":  ref,
	}).Info("payment captured (stub)")
	return ref, nil
}

// Refund возвращает средства и отдаёт ссылку возврата.
func (p *StubProvider) Refund(orderID string, amountMinor int64) (string, error) {
	if p.RefundErr != nil {
		return "", p.RefundErr
	}

	ref := idgen.RefundRef()
	p.logger.WithFields(log.Fields{
		"order_id":     orderID,
		"amount_minor": amountMinor,
		"refund_ref":   ref,
	}).Info("payment refunded (stub)")
	return ref, nil
}

var _ domain.PaymentService = (*StubProvider)(nil)
