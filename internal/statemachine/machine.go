package statemachine

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Metrics — счётчики движка. Реализация живёт в internal/metrics;
// интерфейс здесь разрывает цикл импортов.
type Metrics interface {
	ObserveTransitionAccepted(event, from, to string, duration time.Duration)
	ObserveTransitionRejected(event, from, reason string)
	ObserveActionDuration(action string, duration time.Duration)
}

// Причины отказа для метрик.
const (
	RejectReasonNotAccepted  = "not_accepted"
	RejectReasonGuardDenied  = "guard_denied"
	RejectReasonActionFailed = "action_failed"
)

// Machine — движок переходов. Сам по себе не хранит состояния между вызовами:
// перед каждым событием оценка восстанавливается из персистентного статуса
// заказа, поэтому один экземпляр безопасно разделяется между горутинами.
type Machine struct {
	table     *Table
	clock     domain.Clock
	observers []Observer
	metrics   Metrics
	logger    *log.Entry
}

// Option настраивает Machine при конструировании.
type Option func(*Machine)

// WithObservers подключает наблюдателей жизненного цикла переходов.
func WithObservers(observers ...Observer) Option {
	return func(m *Machine) {
		m.observers = append(m.observers, observers...)
	}
}

// WithMetrics подключает счётчики движка.
func WithMetrics(metrics Metrics) Option {
	return func(m *Machine) {
		m.metrics = metrics
	}
}

// WithClock подменяет источник времени (для детерминированных тестов).
func WithClock(clock domain.Clock) Option {
	return func(m *Machine) {
		m.clock = clock
	}
}

// NewMachine создаёт движок поверх таблицы переходов.
func NewMachine(table *Table, logger *log.Entry, opts ...Option) *Machine {
	if logger == nil {
		logger = log.New().WithField("component", "statemachine")
	}
	m := &Machine{
		table:  table,
		clock:  domain.SystemClock,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AvailableEvents возвращает структурно возможные события для статуса заказа.
func (m *Machine) AvailableEvents(status domain.OrderStatus) []domain.OrderEvent {
	return m.table.AvailableEvents(status)
}

// Fire восстанавливает машину из текущего статуса заказа и проводит одно
// событие по протоколу: поиск правила, guard, цепочка действий, фиксация
// целевого статуса. Исход бинарный: nil и обновлённый заказ либо ошибка
// отказа; частично выполненные действия при падении цепочки не откатываются,
// но отклонённый переход не меняет Status.
func (m *Machine) Fire(order *domain.Order, event domain.OrderEvent) error {
	if !event.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrEventUnknown, event)
	}

	started := m.clock()
	from := order.Status

	m.notifyStarted(order, event)

	rule, ok := m.table.Lookup(from, event)
	if !ok {
		err := fmt.Errorf("%w: event %s in status %s", domain.ErrEventNotAccepted, event, from)
		m.reject(order, event, from, RejectReasonNotAccepted, err)
		return err
	}

	ctx := &Context{
		Order: order,
		Event: event,
		From:  from,
		To:    rule.Target,
		Now:   m.clock(),
	}

	if rule.Guard != nil && !rule.Guard.Check(order) {
		err := fmt.Errorf("%w: guard %s for event %s in status %s", domain.ErrGuardDenied, rule.Guard.Name, event, from)
		m.reject(order, event, from, RejectReasonGuardDenied, err)
		return err
	}

	for _, action := range rule.Actions {
		actionStarted := m.clock()
		runErr := action.Run(ctx)
		if m.metrics != nil {
			m.metrics.ObserveActionDuration(action.Name, m.clock().Sub(actionStarted))
		}
		if runErr != nil {
			ctx.Err = runErr
			if rule.OnError != nil {
				rule.OnError(ctx)
			}
			err := fmt.Errorf("%w: action %s: %w", domain.ErrActionFailed, action.Name, runErr)
			m.reject(order, event, from, RejectReasonActionFailed, err)
			return err
		}
	}

	order.Status = rule.Target
	order.StampStatusTime(rule.Target, ctx.Now)
	order.UpdatedAt = ctx.Now

	if m.metrics != nil {
		m.metrics.ObserveTransitionAccepted(string(event), string(from), string(rule.Target), m.clock().Sub(started))
	}
	m.notifyCommitted(order, event, from, rule.Target)

	return nil
}

func (m *Machine) reject(order *domain.Order, event domain.OrderEvent, from domain.OrderStatus, reason string, err error) {
	if m.metrics != nil {
		m.metrics.ObserveTransitionRejected(string(event), string(from), reason)
	}
	m.notifyRejected(order, event, err)
}

// Хуки наблюдателей не влияют на исход перехода, поэтому их паники гасятся.
func (m *Machine) notifyStarted(order *domain.Order, event domain.OrderEvent) {
	for _, obs := range m.observers {
		m.safeNotify(func() { obs.TransitionStarted(order, event) })
	}
}

func (m *Machine) notifyCommitted(order *domain.Order, event domain.OrderEvent, from, to domain.OrderStatus) {
	for _, obs := range m.observers {
		m.safeNotify(func() { obs.TransitionCommitted(order, event, from, to) })
	}
}

func (m *Machine) notifyRejected(order *domain.Order, event domain.OrderEvent, reason error) {
	for _, obs := range m.observers {
		m.safeNotify(func() { obs.TransitionRejected(order, event, reason) })
	}
}

func (m *Machine) safeNotify(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithField("panic", r).Error("transition observer panicked")
		}
	}()
	fn()
}
