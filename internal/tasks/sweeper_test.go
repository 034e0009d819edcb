package tasks

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"queue_bot/internal/models"
	"queue_bot/internal/storage"
	"queue_bot/internal/store"
	"queue_bot/internal/ws"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		if err := godotenv.Load("../../.env"); err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectTestingDatabase()
	if err := storage.DB.AutoMigrate(&models.User{}, &models.Queue{}, &models.QueueMember{}); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	// Свипер рассылает queue_closed наблюдателям, хаб должен работать.
	go ws.HubInstance.Run()

	os.Exit(m.Run())
}

func TestSweepExpiredQueues(t *testing.T) {
	err := storage.DB.Exec("TRUNCATE TABLE users, queues, queue_members RESTART IDENTITY CASCADE;").Error
	assert.NoError(t, err)

	creator, err := store.CreateUser("ivan", fmt.Sprintf("ivan_%d@example.com", time.Now().UnixNano()), "hashed123")
	assert.NoError(t, err)

	expired, err := store.CreateQueue("Истёкшая", creator.ID)
	assert.NoError(t, err)
	alive, err := store.CreateQueue("Живая", creator.ID)
	assert.NoError(t, err)

	member, err := store.CreateUser("petr", fmt.Sprintf("petr_%d@example.com", time.Now().UnixNano()), "hashed456")
	assert.NoError(t, err)
	_, err = store.Join(expired.ID, member.ID)
	assert.NoError(t, err)

	storage.DB.Model(&models.Queue{}).
		Where("id = ?", expired.ID).
		Update("expires_at", time.Now().Add(-time.Minute))

	SweepExpiredQueues()

	_, err = store.GetQueue(expired.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = store.GetQueue(alive.ID)
	assert.NoError(t, err)

	var memberCount int64
	storage.DB.Model(&models.QueueMember{}).Where("queue_id = ?", expired.ID).Count(&memberCount)
	assert.Equal(t, int64(0), memberCount, "Участники истёкшей очереди должны удаляться каскадом")

	// Повторный запуск без прошедшего времени — то же состояние.
	var queuesBefore, membersBefore int64
	storage.DB.Model(&models.Queue{}).Count(&queuesBefore)
	storage.DB.Model(&models.QueueMember{}).Count(&membersBefore)

	SweepExpiredQueues()

	var queuesAfter, membersAfter int64
	storage.DB.Model(&models.Queue{}).Count(&queuesAfter)
	storage.DB.Model(&models.QueueMember{}).Count(&membersAfter)
	assert.Equal(t, queuesBefore, queuesAfter)
	assert.Equal(t, membersBefore, membersAfter)
}

func TestInitScheduler(t *testing.T) {
	c := InitScheduler()
	defer c.Stop()

	assert.NotEmpty(t, c.Entries(), "Задача свипера должна быть зарегистрирована")
}
