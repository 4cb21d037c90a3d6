package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/models"
)

const (
	NotificationStream   = "notifications"
	notificationGroup    = "notification-workers"
	notificationConsumer = "edulearn-consumer"

	NotificationCourseEdited = "courseEdited"
	NotificationCourseRated  = "courseRated"
)

// RoomPusher đẩy một event tới mọi kết nối trong room (best-effort).
type RoomPusher interface {
	Push(roomID string, event string, payload interface{})
}

// NotificationMessage là payload trên hàng đợi. ID để nơi tiêu thụ có thể
// dedup nếu sau này cần semantics chặt hơn at-least-once.
type NotificationMessage struct {
	ID           string    `json:"id"`
	Heading      string    `json:"heading"`
	CourseTitle  string    `json:"courseTitle"`
	CourseID     string    `json:"courseId"`
	InstructorID string    `json:"instructorId"`
	CreatedAt    time.Time `json:"createdAt"`
	Type         string    `json:"type"` // courseEdited | courseRated
	Recipients   []string  `json:"recipients"`
}

// NotificationService vừa là producer (đẩy vào Redis Stream) vừa là consumer
// (một goroutine nền đọc stream, lưu bản ghi và đẩy realtime). Stream +
// consumer group cho at-least-once: message chỉ bị xoá khỏi pending sau khi
// ack, consumer chết giữa chừng thì message được claim lại lúc khởi động.
type NotificationService struct {
	rdb *redis.Client
	db  *gorm.DB
	hub RoomPusher
}

func NewNotificationService(rdb *redis.Client, db *gorm.DB, hub RoomPusher) *NotificationService {
	return &NotificationService{rdb: rdb, db: db, hub: hub}
}

// Publish đẩy message vào hàng đợi. Best-effort: lỗi broker chỉ được log,
// không bao giờ làm hỏng thao tác nghiệp vụ đang gọi.
func (s *NotificationService) Publish(ctx context.Context, msg NotificationMessage) {
	if s == nil || s.rdb == nil {
		log.Println("Hàng đợi thông báo chưa được cấu hình, bỏ qua message")
		return
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		log.Println("Không serialize được thông báo:", err)
		return
	}
	err = s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: NotificationStream,
		Values: map[string]interface{}{"payload": raw},
	}).Err()
	if err != nil {
		log.Println("Không đẩy được thông báo vào hàng đợi:", err)
	}
}

// StartConsumer chạy consumer nền cho tới khi ctx bị huỷ.
func (s *NotificationService) StartConsumer(ctx context.Context) error {
	if s == nil || s.rdb == nil {
		return errors.New("redis chưa được cấu hình")
	}

	err := s.rdb.XGroupCreateMkStream(ctx, NotificationStream, notificationGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}

	go s.consume(ctx)
	return nil
}

func (s *NotificationService) consume(ctx context.Context) {
	// Nhận lại các message pending từ lần chạy trước (consumer chết trước khi ack)
	s.reclaimPending(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		res, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    notificationGroup,
			Consumer: notificationConsumer,
			Streams:  []string{NotificationStream, ">"},
			Count:    16,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Println("Đọc hàng đợi thông báo lỗi:", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range res {
			for _, xmsg := range stream.Messages {
				s.processStreamMessage(ctx, xmsg)
			}
		}
	}
}

func (s *NotificationService) reclaimPending(ctx context.Context) {
	msgs, _, err := s.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   NotificationStream,
		Group:    notificationGroup,
		Consumer: notificationConsumer,
		MinIdle:  time.Minute,
		Start:    "0-0",
		Count:    64,
	}).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Println("Không claim lại được message pending:", err)
		}
		return
	}
	for _, xmsg := range msgs {
		s.processStreamMessage(ctx, xmsg)
	}
}

func (s *NotificationService) processStreamMessage(ctx context.Context, xmsg redis.XMessage) {
	raw, ok := xmsg.Values["payload"].(string)
	if !ok {
		log.Println("Message không có payload, ack bỏ qua:", xmsg.ID)
		_ = s.rdb.XAck(ctx, NotificationStream, notificationGroup, xmsg.ID).Err()
		return
	}

	var msg NotificationMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		log.Println("Payload thông báo không hợp lệ, ack bỏ qua:", err)
		_ = s.rdb.XAck(ctx, NotificationStream, notificationGroup, xmsg.ID).Err()
		return
	}

	if err := s.Handle(msg); err != nil {
		// không ack: message ở lại pending và được claim lại sau
		log.Println("Xử lý thông báo thất bại:", err)
		return
	}
	_ = s.rdb.XAck(ctx, NotificationStream, notificationGroup, xmsg.ID).Err()
}

// Handle định tuyến message theo type: courseEdited đẩy cho từng học viên
// trong danh sách, courseRated đẩy cho giảng viên. Trả về lỗi khi không lưu
// được bản ghi: message không được ack và sẽ được giao lại.
func (s *NotificationService) Handle(msg NotificationMessage) error {
	switch msg.Type {
	case NotificationCourseEdited:
		body := "Khóa học " + msg.CourseTitle + " vừa được cập nhật. Vào Khóa học của tôi để xem nội dung mới."
		var firstErr error
		for _, userID := range msg.Recipients {
			if err := s.deliver(userID, msg, body); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	case NotificationCourseRated:
		body := "Khóa học " + msg.CourseTitle + " của bạn vừa được một học viên đánh giá."
		return s.deliver(msg.InstructorID, msg, body)
	default:
		log.Println("Loại thông báo không xử lý được:", msg.Type)
	}
	return nil
}

// deliver lưu bản ghi rồi đẩy realtime cho người nhận đang online. Lỗi lưu
// được truyền lên để message ở lại pending; push vẫn là best-effort.
func (s *NotificationService) deliver(userID string, msg NotificationMessage, body string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		// dữ liệu hỏng, giao lại cũng không cứu được
		log.Println("Id người nhận không hợp lệ:", userID)
		return nil
	}

	if s.db != nil {
		notif := models.Notification{
			UserID:  uid,
			Title:   msg.Heading,
			Message: body,
			Type:    msg.Type,
		}
		if cid, err := uuid.Parse(msg.CourseID); err == nil {
			notif.CourseID = &cid
		}
		if err := s.db.Create(&notif).Error; err != nil {
			return err
		}
	}

	if s.hub != nil {
		s.hub.Push(userID, "notification", map[string]interface{}{
			"heading":     msg.Heading,
			"primaryText": body,
			"timeStamp":   msg.CreatedAt,
			"type":        msg.Type,
		})
	}
	return nil
}
