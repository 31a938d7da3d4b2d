// Package order содержит сервис жизненного цикла заказа: тонкий оркестратор
// между репозиторием и движком переходов.
package order

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/idgen"
	"github.com/vladislavdragonenkov/orderflow/internal/statemachine"
)

// CreateOrderInput — входные данные создания заказа.
type CreateOrderInput struct {
	ProductID     string
	Quantity      int32
	AmountMinor   int64
	CustomerEmail string
	PaymentMethod string
}

// Service управляет жизненным циклом заказа: создание, чтение и проведение
// событий через движок переходов с сохранением результата.
type Service struct {
	repo    domain.OrderRepository
	machine *statemachine.Machine
	clock   domain.Clock
	logger  *log.Entry

	// Сериализация submit по order id: защита от гонки read-modify-write
	// между конкурентными событиями одного заказа. Конфликт версий в Save
	// остаётся второй линией обороны от внешних писателей.
	submitLocks keyedMutex
}

// NewService конструирует сервис жизненного цикла.
func NewService(repo domain.OrderRepository, machine *statemachine.Machine, clock domain.Clock, logger *log.Entry) *Service {
	if clock == nil {
		clock = domain.SystemClock
	}
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:    repo,
		machine: machine,
		clock:   clock,
		logger:  logger,
	}
}

// Create валидирует вход, создаёт заказ в начальном статусе и сохраняет его.
func (s *Service) Create(in CreateOrderInput) (domain.Order, error) {
	now := s.clock()
	order := domain.Order{
		ID:            idgen.OrderID(),
		ProductID:     strings.TrimSpace(in.ProductID),
		Quantity:      in.Quantity,
		AmountMinor:   in.AmountMinor,
		Status:        domain.OrderStatusCreated,
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errors.Join(errs...)
	}

	if err := s.repo.Create(order); err != nil {
		return domain.Order{}, fmt.Errorf("persist new order: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"product_id":   order.ProductID,
		"amount_minor": order.AmountMinor,
	}).Info("order created")

	return order, nil
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(id string) (domain.Order, error) {
	return s.repo.Get(id)
}

// List возвращает все заказы.
func (s *Service) List() ([]domain.Order, error) {
	return s.repo.List()
}

// Submit проводит событие для заказа: загрузка, восстановление машины из
// персистентного статуса, оценка перехода и сохранение результата. Отказ
// перехода ничего не сохраняет; заказ в хранилище остаётся в прежнем статусе.
func (s *Service) Submit(id string, event domain.OrderEvent) (domain.Order, error) {
	unlock := s.submitLocks.Lock(id)
	defer unlock()

	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.machine.Fire(&order, event); err != nil {
		return domain.Order{}, err
	}

	if err := s.repo.Save(order); err != nil {
		// Конфликт версий означает, что заказ изменил внешний писатель между
		// загрузкой и сохранением. Побочные эффекты действий уже произошли,
		// поэтому слепой повтор недопустим: отдаём конфликт вызывающему.
		return domain.Order{}, fmt.Errorf("persist transition %s for order %s: %w", event, id, err)
	}

	saved, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}
	return saved, nil
}

// AvailableEvents возвращает текущий статус заказа и структурно возможные
// события (без оценки guard-предикатов).
func (s *Service) AvailableEvents(id string) (domain.OrderStatus, []domain.OrderEvent, error) {
	order, err := s.repo.Get(id)
	if err != nil {
		return "", nil, err
	}
	return order.Status, s.machine.AvailableEvents(order.Status), nil
}
