package tasks

import (
	"log"

	"queue_bot/internal/notify"
	"queue_bot/internal/storage"
	"queue_bot/internal/store"

	"github.com/robfig/cron/v3"
)

// SweepExpiredQueues удаляет очереди, у которых вышло время жизни.
// Любая ошибка логируется и забывается: следующий запуск по расписанию
// попробует снова, незавершённой работы не накапливается.
func SweepExpiredQueues() {
	ids, err := store.SweepExpired()
	if err != nil {
		log.Println("Ошибка при удалении истёкших очередей:", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	log.Printf("Удалено истёкших очередей: %d\n", len(ids))
	storage.InvalidateQueueListCache()
	for _, id := range ids {
		notify.QueueEvent(id, "queue_closed", nil)
	}
}

// InitScheduler инициализирует планировщик cron-задач.
func InitScheduler() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	// Задача удаления истёкших очередей каждый час.
	_, err := c.AddFunc("0 0 * * * *", SweepExpiredQueues)
	if err != nil {
		log.Println("Ошибка запуска cron-задачи SweepExpiredQueues:", err)
	}

	c.Start()
	log.Println("Cron-планировщик запущен.")
	return c
}
