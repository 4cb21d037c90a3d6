package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/megan-fernandes/edulearn-server/config"
	"github.com/megan-fernandes/edulearn-server/controllers"
	"github.com/megan-fernandes/edulearn-server/routes"
	"github.com/megan-fernandes/edulearn-server/services"
	"github.com/megan-fernandes/edulearn-server/ws"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	config.InitDB()
	rdb := config.InitRedis()

	hub := ws.NewHub()

	// Worker thông báo chạy nền trong cùng process
	notifier := services.NewNotificationService(rdb, config.DB, hub)
	if err := notifier.StartConsumer(context.Background()); err != nil {
		log.Println("Không khởi động được worker thông báo:", err)
	}

	controllers.Init(config.DB, hub, notifier)

	r := gin.Default()

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r = routes.SetupRouter(r, config.DB, hub)

	// Lấy PORT từ env
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // mặc định nếu không có PORT
	}

	log.Println("Server running at Port:" + port)
	r.Run(":" + port)
}
