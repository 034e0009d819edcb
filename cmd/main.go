package main

import (
	"fmt"
	"log"
	"os"
	_ "queue_bot/docs"
	"queue_bot/internal/auth"
	"queue_bot/internal/handlers"
	"queue_bot/internal/models"
	"queue_bot/internal/storage"
	"queue_bot/internal/tasks"
	"queue_bot/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title						Онлайн очередь для сдачи лабораторных
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectDatabase()

	if err := storage.DB.AutoMigrate(&models.User{}, &models.Queue{}, &models.QueueMember{}); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	storage.InitRedis()

	// Хаб должен работать до первого тика планировщика: уборщик шлёт
	// события queue_closed через его каналы.
	go ws.HubInstance.Run()

	tasks.InitScheduler()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/register", handlers.Register)
		authGroup.POST("/refresh", handlers.RefreshToken)
	}

	r.GET("/api/queues", handlers.ListQueuesHandler)
	r.GET("/api/queues/:id/members", handlers.GetQueueMembersHandler)

	queues := r.Group("/api/queues", auth.AuthMiddleware())
	{
		queues.POST("", handlers.CreateQueueHandler)
		queues.POST("/:id/join", handlers.JoinQueueHandler)
		queues.POST("/:id/leave", handlers.LeaveQueueHandler)
		queues.POST("/:id/next", handlers.NextHandler)
		queues.GET("/:id/status", handlers.GetQueueStatusHandler)
		queues.DELETE("/:id", handlers.DeleteQueueHandler)
		queues.DELETE("/:id/members/:user_id", handlers.RemoveMemberHandler)
		queues.GET("/:id/ws", ws.QueueWebSocketHandler)
	}

	profile := r.Group("/profile", auth.AuthMiddleware())
	{
		profile.GET("/queues", handlers.GetUserQueuesHandler)
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Ошибка запуска сервера...", err.Error())
	}
}
