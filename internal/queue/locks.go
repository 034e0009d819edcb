package queue

import "sync"

// lockTable выдаёт взаимоисключающую секцию на каждую очередь. Записи
// считаются по ссылкам и убираются из таблицы, как только последний
// держатель освобождает блокировку, поэтому размер таблицы следует за
// числом операций в полёте, а не за количеством когда-либо созданных
// очередей.
type lockTable struct {
	mu    sync.Mutex
	locks map[uint]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uint]*lockEntry)}
}

// Lock захватывает эксклюзивную секцию очереди queueID.
func (t *lockTable) Lock(queueID uint) {
	t.mu.Lock()
	entry, ok := t.locks[queueID]
	if !ok {
		entry = &lockEntry{}
		t.locks[queueID] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()
}

// Unlock освобождает секцию и удаляет запись, если её больше никто не ждёт.
func (t *lockTable) Unlock(queueID uint) {
	t.mu.Lock()
	entry, ok := t.locks[queueID]
	if !ok {
		t.mu.Unlock()
		panic("queue: unlock of unknown queue lock")
	}
	entry.refs--
	if entry.refs == 0 {
		delete(t.locks, queueID)
	}
	t.mu.Unlock()

	entry.mu.Unlock()
}

// size возвращает текущее число записей (для тестов).
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
