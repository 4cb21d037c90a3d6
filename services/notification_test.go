package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/megan-fernandes/edulearn-server/models"
)

type push struct {
	roomID  string
	event   string
	payload interface{}
}

type fakePusher struct {
	pushes []push
}

func (f *fakePusher) Push(roomID string, event string, payload interface{}) {
	f.pushes = append(f.pushes, push{roomID: roomID, event: event, payload: payload})
}

func TestHandleCourseEditedFansOut(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewNotificationService(nil, nil, pusher)

	recipients := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	err := svc.Handle(NotificationMessage{
		ID:          uuid.NewString(),
		Heading:     "Khóa học được cập nhật",
		CourseTitle: "Go cơ bản",
		CourseID:    uuid.NewString(),
		CreatedAt:   time.Now(),
		Type:        NotificationCourseEdited,
		Recipients:  recipients,
	})
	require.NoError(t, err)

	require.Len(t, pusher.pushes, len(recipients))
	for i, p := range pusher.pushes {
		assert.Equal(t, recipients[i], p.roomID)
		assert.Equal(t, "notification", p.event)
	}
}

func TestHandleCourseRatedTargetsInstructor(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewNotificationService(nil, nil, pusher)

	instructorID := uuid.NewString()
	err := svc.Handle(NotificationMessage{
		ID:           uuid.NewString(),
		Heading:      "Khóa học được đánh giá",
		CourseTitle:  "Go cơ bản",
		InstructorID: instructorID,
		CreatedAt:    time.Now(),
		Type:         NotificationCourseRated,
	})
	require.NoError(t, err)

	require.Len(t, pusher.pushes, 1)
	assert.Equal(t, instructorID, pusher.pushes[0].roomID)
}

func TestHandleSkipsInvalidRecipient(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewNotificationService(nil, nil, pusher)

	err := svc.Handle(NotificationMessage{
		Type:       NotificationCourseEdited,
		Recipients: []string{"không-phải-uuid", uuid.NewString()},
	})
	require.NoError(t, err)
	assert.Len(t, pusher.pushes, 1)
}

func TestHandleUnknownTypeIsNoop(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewNotificationService(nil, nil, pusher)

	require.NoError(t, svc.Handle(NotificationMessage{Type: "somethingElse"}))
	assert.Empty(t, pusher.pushes)
}

func TestHandleFailsWhenStoreUnavailable(t *testing.T) {
	// DB không kết nối được: Handle phải trả lỗi để message ở lại pending
	// thay vì bị ack với bản ghi chưa được lưu
	down, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=x password=x dbname=x sslmode=disable"),
		&gorm.Config{
			DisableAutomaticPing: true,
			Logger:               gormLogger.Default.LogMode(gormLogger.Silent),
		})
	require.NoError(t, err)

	pusher := &fakePusher{}
	svc := NewNotificationService(nil, down, pusher)

	err = svc.Handle(NotificationMessage{
		ID:          uuid.NewString(),
		Heading:     "Khóa học được cập nhật",
		CourseTitle: "Go cơ bản",
		Type:        NotificationCourseEdited,
		Recipients:  []string{uuid.NewString()},
	})
	require.Error(t, err)
	// không đẩy realtime khi bản ghi chưa được lưu
	assert.Empty(t, pusher.pushes)

	err = svc.Handle(NotificationMessage{
		Type:         NotificationCourseRated,
		InstructorID: uuid.NewString(),
	})
	require.Error(t, err)
}

func TestPublishWithoutRedisIsSafe(t *testing.T) {
	// Hàng đợi chưa cấu hình: Publish không panic, không chặn caller
	var svc *NotificationService
	svc.Publish(context.Background(), NotificationMessage{Type: NotificationCourseRated})

	svc = NewNotificationService(nil, nil, nil)
	svc.Publish(context.Background(), NotificationMessage{Type: NotificationCourseRated})

	require.Error(t, svc.StartConsumer(context.Background()))
}

func TestDeliverPersistsNotification(t *testing.T) {
	tx := beginTx(t)
	pusher := &fakePusher{}
	svc := NewNotificationService(nil, tx, pusher)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 1, 0)

	err := svc.Handle(NotificationMessage{
		ID:          uuid.NewString(),
		Heading:     "Khóa học được cập nhật",
		CourseTitle: course.Title,
		CourseID:    course.ID.String(),
		CreatedAt:   time.Now(),
		Type:        NotificationCourseEdited,
		Recipients:  []string{student.ID.String()},
	})
	require.NoError(t, err)

	var saved models.Notification
	require.NoError(t, tx.First(&saved, "user_id = ?", student.ID).Error)
	assert.Equal(t, "Khóa học được cập nhật", saved.Title)
	assert.Equal(t, NotificationCourseEdited, saved.Type)
	assert.False(t, saved.IsRead)
	require.NotNil(t, saved.CourseID)
	assert.Equal(t, course.ID, *saved.CourseID)

	require.Len(t, pusher.pushes, 1)
}
