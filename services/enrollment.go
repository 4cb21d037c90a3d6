package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

type EnrollmentService struct {
	db       *gorm.DB
	chat     *ChatService
	notifier *NotificationService
}

func NewEnrollmentService(db *gorm.DB, chat *ChatService, notifier *NotificationService) *EnrollmentService {
	return &EnrollmentService{db: db, chat: chat, notifier: notifier}
}

// EnrollStudent tạo ghi danh cho học viên vào khóa học đã publish, rồi nối
// danh bạ hai chiều học viên ↔ giảng viên. paymentID khác nil khi ghi danh
// đến từ một thanh toán thành công.
func (s *EnrollmentService) EnrollStudent(courseID, studentID uuid.UUID, paymentID *uuid.UUID) (*models.Enrollment, error) {
	var course models.Course
	if err := s.db.First(&course, "id = ? AND is_published = true", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("Không tìm thấy khóa học")
		}
		return nil, err
	}

	var student models.User
	if err := s.db.First(&student, "id = ? AND role = ?", studentID, models.RoleStudent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("Không tìm thấy học viên")
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewInvalidOperation("Đã ghi danh khóa học này rồi")
	}

	enrollment := models.Enrollment{
		CourseID:           courseID,
		StudentID:          studentID,
		PaymentID:          paymentID,
		CompletedMaterials: []string{},
	}
	if err := s.db.Create(&enrollment).Error; err != nil {
		return nil, err
	}

	if err := s.chat.LinkContacts(studentID, course.InstructorID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// RateCourse ghi đánh giá của học viên (chỉ một lần) rồi tính lại rating
// trung bình của khóa học. Trung bình chia cho TỔNG học viên đã ghi danh,
// học viên chưa đánh giá tính là 0, giữ nguyên hành vi gốc của sản phẩm.
func (s *EnrollmentService) RateCourse(courseID, studentID uuid.UUID, rating float64, review string) error {
	var course models.Course
	if err := s.db.First(&course, "id = ? AND is_published = true", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFound("Không tìm thấy khóa học")
		}
		return err
	}

	var enrollment models.Enrollment
	if err := s.db.Where("course_id = ? AND student_id = ?", courseID, studentID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewInvalidOperation("Chưa ghi danh khóa học này")
		}
		return err
	}

	if enrollment.RatingByStudent > 0 || enrollment.ReviewByStudent != "" {
		return utils.NewInvalidOperation("Đã đánh giá khóa học này rồi")
	}

	enrollment.RatingByStudent = math.Round(rating*10) / 10
	enrollment.ReviewByStudent = review
	if err := s.db.Save(&enrollment).Error; err != nil {
		return err
	}

	var agg struct {
		Total float64
		Count int64
	}
	err := s.db.Model(&models.Enrollment{}).
		Select("COALESCE(SUM(rating_by_student),0) AS total, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	if agg.Count > 0 {
		course.Rating = agg.Total / float64(agg.Count)
	} else {
		course.Rating = 0
	}
	if err := s.db.Save(&course).Error; err != nil {
		return err
	}

	s.notifier.Publish(context.Background(), NotificationMessage{
		Heading:      "Khóa học được đánh giá",
		CourseTitle:  course.Title,
		CourseID:     course.ID.String(),
		InstructorID: course.InstructorID.String(),
		CreatedAt:    time.Now(),
		Type:         NotificationCourseRated,
	})
	return nil
}
