package store

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"queue_bot/internal/models"
	"queue_bot/internal/storage"

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

	os.Exit(m.Run())
}

func resetTables(t *testing.T) {
	t.Helper()
	err := storage.DB.Exec("TRUNCATE TABLE users, queues, queue_members RESTART IDENTITY CASCADE;").Error
	assert.NoError(t, err, "Ошибка очистки таблиц")
}

func createTestUser(t *testing.T, name string) models.User {
	t.Helper()
	email := fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano())
	user, err := CreateUser(name, email, "hashed123")
	assert.NoError(t, err, "Ошибка создания пользователя")
	return user
}

func assertContiguous(t *testing.T, queueID uint) {
	t.Helper()
	members, err := ListMembers(queueID)
	assert.NoError(t, err)
	seen := make(map[int]bool)
	for _, m := range members {
		seen[m.Position] = true
	}
	for i := 1; i <= len(members); i++ {
		assert.True(t, seen[i], "Позиция %d отсутствует, нумерация с разрывом", i)
	}
	assert.Equal(t, len(members), len(seen), "Есть дубли позиций")
}

func TestUserDirectoryLookup(t *testing.T) {
	resetTables(t)
	created := createTestUser(t, "ivan")

	byID, err := GetUser(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)

	byName, err := GetUserByName("ivan")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := GetUserByEmail(created.Email)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = GetUserByName("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = GetUser(created.ID + 1000)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateQueueValidation(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")

	_, err := CreateQueue("", creator.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateQueue("   ", creator.ID)
	assert.ErrorIs(t, err, ErrValidation)

	long := make([]rune, models.MaxQueueNameLen+1)
	for i := range long {
		long[i] = 'а'
	}
	_, err = CreateQueue(string(long), creator.ID)
	assert.ErrorIs(t, err, ErrValidation)

	q, err := CreateQueue("Lab1", creator.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Lab1", q.Name)
	assert.Equal(t, creator.ID, q.CreatorID)
	assert.WithinDuration(t, time.Now().Add(models.QueueTTL), q.ExpiresAt, time.Minute)
}

func TestJoinAssignsSequentialPositions(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	q, err := CreateQueue("Lab1", creator.ID)
	assert.NoError(t, err)

	user20 := createTestUser(t, "petr")
	pos, err := Join(q.ID, user20.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, pos)
	count, err := MemberCount(q.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	user30 := createTestUser(t, "maria")
	pos, err = Join(q.ID, user30.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, pos)
	count, err = MemberCount(q.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestJoinDuplicate(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	q, _ := CreateQueue("Lab1", creator.ID)
	user := createTestUser(t, "petr")

	_, err := Join(q.ID, user.ID)
	assert.NoError(t, err)

	_, err = Join(q.ID, user.ID)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	count, _ := MemberCount(q.ID)
	assert.Equal(t, 1, count)
}

func TestJoinMissingQueue(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "petr")

	_, err := Join(9999, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveRenumbers(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	q, _ := CreateQueue("Lab1", creator.ID)

	first := createTestUser(t, "petr")
	second := createTestUser(t, "maria")
	third := createTestUser(t, "oleg")
	Join(q.ID, first.ID)
	Join(q.ID, second.ID)
	Join(q.ID, third.ID)

	// Уходит участник из середины: стоящие за ним сдвигаются на единицу.
	err := Leave(q.ID, second.ID)
	assert.NoError(t, err)

	m1, err := GetMember(q.ID, first.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, m1.Position)

	m3, err := GetMember(q.ID, third.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, m3.Position)

	assertContiguous(t, q.ID)
}

func TestLeaveThenRejoin(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	q, _ := CreateQueue("Lab1", creator.ID)
	user := createTestUser(t, "petr")

	pos, _ := Join(q.ID, user.ID)
	assert.Equal(t, 1, pos)
	assert.NoError(t, Leave(q.ID, user.ID))

	pos, err := Join(q.ID, user.ID)
	assert.NoError(t, err, "Повторный вход после выхода должен работать")
	assert.Equal(t, 1, pos)
}

func TestLeaveNotMember(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	q, _ := CreateQueue("Lab1", creator.ID)
	user := createTestUser(t, "petr")

	err := Leave(q.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestPeekFront(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	q, _ := CreateQueue("Lab1", creator.ID)

	_, err := PeekFront(q.ID)
	assert.ErrorIs(t, err, ErrQueueEmpty)

	first := createTestUser(t, "petr")
	second := createTestUser(t, "maria")
	Join(q.ID, first.ID)
	Join(q.ID, second.ID)

	front, err := PeekFront(q.ID)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, front.UserID)
	assert.Equal(t, 1, front.Position)
	assert.Equal(t, "petr", front.User.DisplayName)
}

func TestFIFOOrder(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	q, _ := CreateQueue("Lab1", creator.ID)

	a := createTestUser(t, "first")
	b := createTestUser(t, "second")
	other := createTestUser(t, "third")
	Join(q.ID, a.ID)
	Join(q.ID, other.ID)
	Join(q.ID, b.ID)

	// A вошёл раньше B и после любого выхода остаётся впереди.
	assert.NoError(t, Leave(q.ID, other.ID))

	ma, _ := GetMember(q.ID, a.ID)
	mb, _ := GetMember(q.ID, b.ID)
	assert.Less(t, ma.Position, mb.Position)
	assertContiguous(t, q.ID)
}

func TestDeleteQueueAuthorization(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	stranger := createTestUser(t, "petr")
	q, _ := CreateQueue("Lab1", creator.ID)
	Join(q.ID, stranger.ID)

	ok, err := DeleteQueue(q.ID, stranger.ID)
	assert.NoError(t, err)
	assert.False(t, ok, "Не создатель не должен удалять очередь")

	_, err = GetQueue(q.ID)
	assert.NoError(t, err, "Очередь должна остаться после отказа")

	ok, err = DeleteQueue(q.ID, creator.ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	_, err = GetQueue(q.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := MemberCount(q.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, count, "Участники должны удаляться каскадом")
}

func TestRemoveMemberAuthorization(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	member := createTestUser(t, "petr")
	tail := createTestUser(t, "maria")
	q, _ := CreateQueue("Lab1", creator.ID)
	Join(q.ID, member.ID)
	Join(q.ID, tail.ID)

	ok, err := RemoveMember(q.ID, member.ID, member.ID)
	assert.NoError(t, err)
	assert.False(t, ok, "Не создатель не должен удалять участников")
	count, _ := MemberCount(q.ID)
	assert.Equal(t, 2, count)

	_, err = RemoveMember(q.ID, creator.ID, creator.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	ok, err = RemoveMember(q.ID, member.ID, creator.ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	mt, err := GetMember(q.ID, tail.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, mt.Position, "Позиции должны пересчитаться")
}

func TestExpiredQueueInvisible(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	user := createTestUser(t, "petr")
	q, _ := CreateQueue("Lab1", creator.ID)
	Join(q.ID, user.ID)

	// Очередь с истёкшим сроком невидима ещё до запуска свипера.
	err := storage.DB.Model(&models.Queue{}).
		Where("id = ?", q.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error
	assert.NoError(t, err)

	_, err = GetQueue(q.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Join(q.ID, creator.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	queues, err := ListActiveQueues()
	assert.NoError(t, err)
	assert.Empty(t, queues)

	ids, err := SweepExpired()
	assert.NoError(t, err)
	assert.Equal(t, []uint{q.ID}, ids)

	var queueCount, memberCount int64
	storage.DB.Model(&models.Queue{}).Count(&queueCount)
	storage.DB.Model(&models.QueueMember{}).Count(&memberCount)
	assert.Equal(t, int64(0), queueCount)
	assert.Equal(t, int64(0), memberCount)
}

func TestSweepIdempotent(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")
	qOld, _ := CreateQueue("Old", creator.ID)
	qNew, _ := CreateQueue("New", creator.ID)

	storage.DB.Model(&models.Queue{}).
		Where("id = ?", qOld.ID).
		Update("expires_at", time.Now().Add(-time.Minute))

	ids, err := SweepExpired()
	assert.NoError(t, err)
	assert.Equal(t, []uint{qOld.ID}, ids)

	// Повторный запуск без прошедшего времени ничего не меняет.
	ids, err = SweepExpired()
	assert.NoError(t, err)
	assert.Empty(t, ids)

	_, err = GetQueue(qNew.ID)
	assert.NoError(t, err, "Живая очередь не должна задеваться свипером")
}

func TestListActiveQueuesNewestFirst(t *testing.T) {
	resetTables(t)
	creator := createTestUser(t, "ivan")

	q1, _ := CreateQueue("Первая", creator.ID)
	// Разносим created_at, точность таймстампа может совпасть.
	storage.DB.Model(&models.Queue{}).
		Where("id = ?", q1.ID).
		Update("created_at", time.Now().Add(-time.Hour))
	q2, _ := CreateQueue("Вторая", creator.ID)

	queues, err := ListActiveQueues()
	assert.NoError(t, err)
	assert.Len(t, queues, 2)
	assert.Equal(t, q2.ID, queues[0].ID)
	assert.Equal(t, q1.ID, queues[1].ID)
}
