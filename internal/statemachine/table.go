package statemachine

import (
	"fmt"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Rule описывает один переход таблицы: пара (источник, событие) однозначно
// определяет целевой статус, guard и упорядоченную цепочку действий.
type Rule struct {
	Source  domain.OrderStatus
	Event   domain.OrderEvent
	Target  domain.OrderStatus
	Guard   *Guard
	Actions []Action
	// OnError вызывается после прерывания цепочки действий; не должен паниковать.
	OnError func(ctx *Context)
}

// Table — статическая детерминированная таблица переходов:
// не более одного правила на пару (источник, событие).
type Table struct {
	rules map[domain.OrderStatus]map[domain.OrderEvent]Rule
}

// NewTable собирает полный набор правил жизненного цикла заказа
// и валидирует его структуру. Ошибка конструирования означает дефект
// конфигурации и должна останавливать запуск приложения.
func NewTable(guards *Guards, actions *Actions) (*Table, error) {
	paymentValid := guards.PaymentValid()
	stockAvailable := guards.StockAvailable()
	cancellable := guards.Cancellable()
	returnable := guards.Returnable()

	rules := []Rule{
		{
			Source:  domain.OrderStatusCreated,
			Event:   domain.OrderEventPay,
			Target:  domain.OrderStatusPaid,
			Guard:   &paymentValid,
			Actions: []Action{actions.CapturePayment(), actions.Notify()},
			OnError: actions.HandleError,
		},
		{
			Source:  domain.OrderStatusCreated,
			Event:   domain.OrderEventCancel,
			Target:  domain.OrderStatusCancelled,
			Actions: []Action{actions.Notify()},
			OnError: actions.HandleError,
		},
		{
			Source:  domain.OrderStatusPaid,
			Event:   domain.OrderEventShip,
			Target:  domain.OrderStatusShipped,
			Guard:   &stockAvailable,
			Actions: []Action{actions.DeductStock(), actions.Notify()},
			OnError: actions.HandleError,
		},
		{
			Source:  domain.OrderStatusPaid,
			Event:   domain.OrderEventCancel,
			Target:  domain.OrderStatusCancelled,
			Guard:   &cancellable,
			Actions: []Action{actions.Refund(), actions.Notify()},
			OnError: actions.HandleError,
		},
		{
			Source:  domain.OrderStatusShipped,
			Event:   domain.OrderEventDeliver,
			Target:  domain.OrderStatusDelivered,
			Actions: []Action{actions.MarkDelivered(), actions.Notify()},
			OnError: actions.HandleError,
		},
		{
			Source:  domain.OrderStatusDelivered,
			Event:   domain.OrderEventReturn,
			Target:  domain.OrderStatusReturned,
			Guard:   &returnable,
			Actions: []Action{actions.Refund(), actions.Notify()},
			OnError: actions.HandleError,
		},
	}

	return buildTable(rules)
}

// buildTable индексирует правила и проверяет структурные инварианты таблицы.
func buildTable(rules []Rule) (*Table, error) {
	indexed := make(map[domain.OrderStatus]map[domain.OrderEvent]Rule, len(rules))

	for _, r := range rules {
		if !r.Source.Valid() {
			return nil, fmt.Errorf("transition table: unknown source status %q", r.Source)
		}
		if !r.Target.Valid() {
			return nil, fmt.Errorf("transition table: unknown target status %q", r.Target)
		}
		if !r.Event.Valid() {
			return nil, fmt.Errorf("transition table: unknown event %q", r.Event)
		}
		if r.Source.Terminal() {
			return nil, fmt.Errorf("transition table: terminal status %s must have no outgoing rules", r.Source)
		}

		byEvent, ok := indexed[r.Source]
		if !ok {
			byEvent = make(map[domain.OrderEvent]Rule)
			indexed[r.Source] = byEvent
		}
		if _, exists := byEvent[r.Event]; exists {
			return nil, fmt.Errorf("transition table: duplicate rule for (%s, %s)", r.Source, r.Event)
		}
		byEvent[r.Event] = r
	}

	return &Table{rules: indexed}, nil
}

// Lookup возвращает правило для пары (статус, событие).
// Отсутствие правила означает, что событие структурно неприменимо в этом статусе.
func (t *Table) Lookup(source domain.OrderStatus, event domain.OrderEvent) (Rule, bool) {
	byEvent, ok := t.rules[source]
	if !ok {
		return Rule{}, false
	}
	rule, ok := byEvent[event]
	return rule, ok
}

// AvailableEvents возвращает события, для которых есть правило с данным
// источником. Guard-проверки не выполняются: список структурно возможных
// событий, а не гарантированно проходимых.
func (t *Table) AvailableEvents(source domain.OrderStatus) []domain.OrderEvent {
	byEvent, ok := t.rules[source]
	if !ok {
		return nil
	}

	events := make([]domain.OrderEvent, 0, len(byEvent))
	for _, ev := range domain.AllEvents() {
		if _, exists := byEvent[ev]; exists {
			events = append(events, ev)
		}
	}
	return events
}
