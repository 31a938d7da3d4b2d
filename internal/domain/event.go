package domain

import "fmt"

// OrderEvent описывает событие, инициирующее переход между статусами заказа.
type OrderEvent string

const (
	// OrderEventPay — оплатить заказ.
	OrderEventPay OrderEvent = "PAY"
	// OrderEventShip — начать отгрузку.
	OrderEventShip OrderEvent = "SHIP"
	// OrderEventDeliver — подтвердить доставку.
	OrderEventDeliver OrderEvent = "DELIVER"
	// OrderEventCancel — отменить заказ.
	OrderEventCancel OrderEvent = "CANCEL"
	// OrderEventReturn — оформить возврат.
	OrderEventReturn OrderEvent = "RETURN"
	// OrderEventRefund зарезервировано: ни один переход таблицы его не использует.
	OrderEventRefund OrderEvent = "REFUND"
)

// eventDescriptions — человекочитаемые описания событий для API.
var eventDescriptions = map[OrderEvent]string{
	OrderEventPay:     "pay for the order",
	OrderEventShip:    "start shipment",
	OrderEventDeliver: "confirm delivery",
	OrderEventCancel:  "cancel the order",
	OrderEventReturn:  "return the order",
	OrderEventRefund:  "refund the order",
}

// AllEvents возвращает полный закрытый набор событий.
func AllEvents() []OrderEvent {
	return []OrderEvent{
		OrderEventPay,
		OrderEventShip,
		OrderEventDeliver,
		OrderEventCancel,
		OrderEventReturn,
		OrderEventRefund,
	}
}

// Description возвращает описание события или пустую строку для неизвестного значения.
func (e OrderEvent) Description() string {
	return eventDescriptions[e]
}

// Valid проверяет, что событие входит в закрытый набор.
func (e OrderEvent) Valid() bool {
	_, ok := eventDescriptions[e]
	return ok
}

// ParseOrderEvent преобразует внешнее строковое представление в OrderEvent.
func ParseOrderEvent(raw string) (OrderEvent, error) {
	event := OrderEvent(raw)
	if !event.Valid() {
		return "", fmt.Errorf("%w: %q", ErrEventUnknown, raw)
	}
	return event, nil
}
