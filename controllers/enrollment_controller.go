package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

type EnrollInput struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
}

type UpdateProgressInput struct {
	CourseID  string `json:"course_id" binding:"required,uuid"`
	LectureID string `json:"lecture_id" binding:"required,uuid"`
}

type RateCourseInput struct {
	CourseID string  `json:"course_id" binding:"required,uuid"`
	Rating   float64 `json:"rating" binding:"required,min=1,max=5"`
	Review   string  `json:"review"`
}

// Ghi danh miễn phí; khóa học có phí phải đi qua luồng thanh toán
func EnrollStudent(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var input EnrollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}
	courseID := uuid.MustParse(input.CourseID)

	var course models.Course
	if err := db.First(&course, "id = ? AND is_published = ?", courseID, true).Error; err != nil {
		utils.SendError(c, utils.NewNotFound("Không tìm thấy khóa học"))
		return
	}
	if course.Cost > 0 {
		utils.SendError(c, utils.NewInvalidOperation("Khóa học có phí, vui lòng thanh toán để ghi danh"))
		return
	}

	enrollment, err := enrollmentService.EnrollStudent(courseID, studentID, nil)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Ghi danh thành công", enrollment)
}

// Đánh dấu hoàn thành một bài giảng và trả về tiến độ mới
func UpdateCourseProgress(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var input UpdateProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	enrollment, err := progressService.MarkLectureComplete(
		uuid.MustParse(input.CourseID), studentID, uuid.MustParse(input.LectureID))
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Cập nhật tiến độ thành công", gin.H{
		"completed_materials":   enrollment.CompletedMaterials,
		"completion_percentage": enrollment.CompletionPercentage,
	})
}

// Tiến độ của học viên trong một khóa học
func GetCourseProgress(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("courseId không hợp lệ", nil))
		return
	}

	var enrollment models.Enrollment
	if err := db.First(&enrollment, "course_id = ? AND student_id = ?", courseID, studentID).Error; err != nil {
		utils.SendError(c, utils.NewNotFound("Bạn chưa ghi danh khóa học này"))
		return
	}

	utils.SendResponse(c, http.StatusOK, "Lấy tiến độ thành công", gin.H{
		"completed_materials":   enrollment.CompletedMaterials,
		"completion_percentage": enrollment.CompletionPercentage,
		"rating_by_student":     enrollment.RatingByStudent,
		"review_by_student":     enrollment.ReviewByStudent,
	})
}

// Danh sách khóa học học viên đang theo, kèm tiến độ
func GetEnrolledCourses(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var enrollments []models.Enrollment
	if err := db.Where("student_id = ?", studentID).
		Preload("Course", func(tx *gorm.DB) *gorm.DB {
			return tx.Preload("Instructor", func(itx *gorm.DB) *gorm.DB {
				return itx.Select("id", "full_name")
			})
		}).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Lấy danh sách khóa học đã ghi danh thành công", enrollments)
}

// Đánh giá khóa học; mỗi học viên chỉ đánh giá một lần
func RateCourse(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var input RateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	if err := enrollmentService.RateCourse(
		uuid.MustParse(input.CourseID), studentID, input.Rating, input.Review); err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Đánh giá khóa học thành công", nil)
}
