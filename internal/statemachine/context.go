// Package statemachine реализует табличный движок переходов статусов заказа:
// статическая таблица правил, guard-проверки, упорядоченные цепочки действий
// и восстановление машины из персистентного статуса перед каждым событием.
package statemachine

import (
	"time"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Context — типизированный носитель данных одной оценки перехода.
// Передаётся по ссылке в действия и обработчик ошибок; живёт ровно одну
// отправку события и уничтожается вместе с эфемерной машиной.
type Context struct {
	// Order — субъект перехода; действия мутируют его поля напрямую.
	Order *domain.Order
	// Event — событие, инициировавшее переход.
	Event domain.OrderEvent
	// From и To — исходный и целевой статусы правила.
	From domain.OrderStatus
	To   domain.OrderStatus
	// Now — момент оценки, общий для всех временных меток перехода.
	Now time.Time
	// Err заполняется обработчиком ошибок, если действие цепочки упало.
	Err error
}
