package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

// Hành động trên tập bài giảng được tính tiến độ.
const (
	EligibilityAdd    = "add"
	EligibilityRemove = "remove"
)

type ProgressService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewProgressService(db *gorm.DB, notifier *NotificationService) *ProgressService {
	return &ProgressService{db: db, notifier: notifier}
}

// RecomputeCompletion tính phần trăm hoàn thành, kẹp trong [0,100].
// Chưa có bài giảng nào được tính (mẫu số 0) thì tiến độ là 0.
func RecomputeCompletion(completedCount, totalEligible int) float64 {
	if totalEligible <= 0 {
		return 0
	}
	percentage := float64(completedCount) / float64(totalEligible) * 100
	if percentage < 0 {
		return 0
	}
	if percentage > 100 {
		return 100
	}
	return percentage
}

// EligibleLectureIDs trả về id các bài giảng đang được tính vào mẫu số:
// đã publish và thuộc chương đã publish.
func (s *ProgressService) EligibleLectureIDs(courseID uuid.UUID) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.Lecture{}).
		Joins("JOIN chapters ON chapters.id = lectures.chapter_id").
		Where("chapters.course_id = ? AND lectures.is_published = true AND chapters.is_published = true", courseID).
		Pluck("lectures.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// MarkLectureComplete thêm bài giảng vào danh sách đã hoàn thành của học viên
// và tính lại tiến độ. Idempotent: bài đã hoàn thành rồi thì vẫn thành công,
// không thay đổi gì.
func (s *ProgressService) MarkLectureComplete(courseID, studentID, lectureID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.Where("course_id = ? AND student_id = ?", courseID, studentID).First(&enrollment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound("Không tìm thấy ghi danh")
		}
		return nil, err
	}

	eligible, err := s.EligibleLectureIDs(courseID)
	if err != nil {
		return nil, err
	}
	if !containsID(eligible, lectureID.String()) {
		return nil, utils.NewNotFound("Bài giảng không thuộc khóa học này")
	}

	if containsID(enrollment.CompletedMaterials, lectureID.String()) {
		return &enrollment, nil
	}

	enrollment.CompletedMaterials = append(enrollment.CompletedMaterials, lectureID.String())
	enrollment.CompletionPercentage = RecomputeCompletion(len(enrollment.CompletedMaterials), len(eligible))
	if err := s.db.Save(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// OnLecturePublishChanged tính lại tiến độ của mọi ghi danh trong khóa học
// khi một bài giảng được thêm vào / rút khỏi tập được tính:
//   - add: mẫu số tăng, danh sách đã hoàn thành giữ nguyên (không tự đánh dấu
//     bài mới là đã hoàn thành);
//   - remove: rút bài khỏi danh sách đã hoàn thành nếu có rồi tính lại.
//
// Batch là best-effort: một ghi danh lưu lỗi thì log và đi tiếp, thông báo
// vẫn được gửi cho những ghi danh đã lưu thành công.
func (s *ProgressService) OnLecturePublishChanged(courseID, lectureID uuid.UUID, action string) error {
	return s.applyEligibilityChange(courseID, []string{lectureID.String()}, action)
}

// OnLecturesRemoved xử lý xoá hàng loạt (xoá chương kéo theo các bài giảng).
func (s *ProgressService) OnLecturesRemoved(courseID uuid.UUID, lectureIDs []string) error {
	if len(lectureIDs) == 0 {
		return nil
	}
	return s.applyEligibilityChange(courseID, lectureIDs, EligibilityRemove)
}

func (s *ProgressService) applyEligibilityChange(courseID uuid.UUID, lectureIDs []string, action string) error {
	var course models.Course
	if err := s.db.First(&course, "id = ?", courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.NewNotFound("Không tìm thấy khóa học")
		}
		return err
	}

	var enrollments []models.Enrollment
	if err := s.db.Where("course_id = ?", courseID).Find(&enrollments).Error; err != nil {
		return err
	}

	eligible, err := s.EligibleLectureIDs(courseID)
	if err != nil {
		return err
	}
	total := len(eligible)

	var affected []string
	for i := range enrollments {
		enrollment := &enrollments[i]

		if action == EligibilityRemove {
			for _, id := range lectureIDs {
				enrollment.CompletedMaterials = removeID(enrollment.CompletedMaterials, id)
			}
		}
		enrollment.CompletionPercentage = RecomputeCompletion(len(enrollment.CompletedMaterials), total)

		if err := s.db.Save(enrollment).Error; err != nil {
			log.Println("Không lưu được tiến độ cho học viên", enrollment.StudentID, ":", err)
			continue
		}
		affected = append(affected, enrollment.StudentID.String())
	}

	if len(affected) > 0 {
		s.notifier.Publish(context.Background(), NotificationMessage{
			Heading:      "Khóa học được cập nhật",
			CourseTitle:  course.Title,
			CourseID:     course.ID.String(),
			InstructorID: course.InstructorID.String(),
			CreatedAt:    time.Now(),
			Type:         NotificationCourseEdited,
			Recipients:   affected,
		})
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
