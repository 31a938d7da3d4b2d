// Package idgen генерирует человекочитаемые идентификаторы заказов и
// платёжных/возвратных ссылок: фиксированный префикс плюс случайный суффикс.
package idgen

import (
	"strings"

	"github.com/google/uuid"
)

const (
	orderPrefix   = "ORD-"
	paymentPrefix = "PAY-"
	refundPrefix  = "REF-"

	suffixLen = 8
)

// OrderID возвращает идентификатор нового заказа вида ORD-1A2B3C4D.
func OrderID() string {
	return orderPrefix + suffix()
}

// PaymentRef возвращает платёжную ссылку вида PAY-1A2B3C4D.
func PaymentRef() string {
	return paymentPrefix + suffix()
}

// RefundRef возвращает ссылку возврата вида REF-1A2B3C4D.
func RefundRef() string {
	return refundPrefix + suffix()
}

// suffix берёт первые 8 hex-символов случайного UUID; при ожидаемых объёмах
// вероятность коллизии пренебрежимо мала, уникальность ID дополнительно
// гарантирует хранилище.
func suffix() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:suffixLen])
}
