package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis mở kết nối Redis cho hàng đợi thông báo. Trả về nil khi thiếu
// cấu hình hoặc không kết nối được: gửi thông báo là best-effort, server
// vẫn chạy bình thường không có broker.
func InitRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("Thiếu REDIS_ADDR, bỏ qua hàng đợi thông báo")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Println("Không kết nối được Redis:", err)
		_ = rdb.Close()
		return nil
	}

	log.Println("redis connected!")
	return rdb
}
