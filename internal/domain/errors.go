package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора товара.
	ErrProductRequired = errors.New("product_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("amount_minor must be non-negative")
	// Ошибка статуса вне закрытого набора.
	ErrStatusInvalid = errors.New("order status is invalid")
	// Ошибка события вне закрытого набора.
	ErrEventUnknown = errors.New("order event is unknown")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")

	// ErrEventNotAccepted — для пары (статус, событие) нет правила перехода.
	ErrEventNotAccepted = errors.New("event not valid from current state")
	// ErrGuardDenied — правило найдено, но guard отклонил переход.
	ErrGuardDenied = errors.New("transition guard denied")
	// ErrActionFailed — действие в цепочке перехода завершилось ошибкой.
	ErrActionFailed = errors.New("transition action failed")

	// ErrPaymentDeclined — платёж отклонён провайдером (бизнес-ошибка).
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrInventoryUnavailable — бизнес-ошибка от склада (нет стока/недоступность позиции).
	ErrInventoryUnavailable = errors.New("inventory unavailable")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// ErrIdempotencyKeyRequired — пустой idempotency-key.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired — пустой хеш запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyAlreadyExists — ключ уже зарегистрирован с тем же запросом.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch — ключ уже использован с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key is used with a different request")
	// ErrIdempotencyKeyNotFound — запись по ключу отсутствует.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
)

// IsInvalidTransition проверяет, относится ли ошибка к детерминированным
// отказам перехода: нет правила либо guard отклонил. Повтор того же события
// даст тот же результат.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrEventNotAccepted) || errors.Is(err, ErrGuardDenied)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
