package order

import "sync"

// keyedMutex сериализует обработку событий по идентификатору заказа:
// события разных заказов идут параллельно, одного — строго по очереди.
// Мьютексы не освобождаются после использования; при ожидаемом числе
// активных заказов рост карты не является проблемой.
type keyedMutex struct {
	locks sync.Map // map[string]*sync.Mutex
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения.
func (k *keyedMutex) Lock(key string) func() {
	actual, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := actual.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
