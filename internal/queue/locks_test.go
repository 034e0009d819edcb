package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockTableMutualExclusion(t *testing.T) {
	table := newLockTable()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table.Lock(1)
			defer table.Unlock(1)
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLockTableEviction(t *testing.T) {
	table := newLockTable()

	table.Lock(1)
	table.Lock(2)
	assert.Equal(t, 2, table.size())

	table.Unlock(1)
	assert.Equal(t, 1, table.size(), "Свободная запись должна убираться из таблицы")

	table.Unlock(2)
	assert.Equal(t, 0, table.size(), "Таблица пуста, когда никто не держит блокировок")
}

func TestLockTableKeepsEntryWhileWaiting(t *testing.T) {
	table := newLockTable()

	table.Lock(1)

	acquired := make(chan struct{})
	go func() {
		table.Lock(1)
		close(acquired)
	}()

	// Даём второй горутине встать в ожидание.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, table.size())

	table.Unlock(1)
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Ожидающая горутина не получила блокировку")
	}
	table.Unlock(1)
	assert.Equal(t, 0, table.size())
}

func TestLockTableIndependentQueues(t *testing.T) {
	table := newLockTable()

	table.Lock(1)
	defer table.Unlock(1)

	done := make(chan struct{})
	go func() {
		// Блокировка другой очереди не должна ждать первую.
		table.Lock(2)
		table.Unlock(2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Операции над разными очередями не должны блокировать друг друга")
	}
}
