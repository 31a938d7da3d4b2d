package domain

// OrderRepository описывает требования к хранилищу заказов.
// Каждый вызов атомарен: Get возвращает согласованный снимок, Save — всё или ничего.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// List возвращает все заказы, новые первыми.
	List() ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking по полю Version.
	Save(order Order) error
}
