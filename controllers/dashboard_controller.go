package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

type (
	InstructorDashboard struct {
		TotalCourses     int64   `json:"total_courses"`
		PublishedCourses int64   `json:"published_courses"`
		TotalStudents    int64   `json:"total_students"`
		AverageRating    float64 `json:"average_rating"`
	}

	StudentDashboard struct {
		EnrolledCourses   int64   `json:"enrolled_courses"`
		CompletedCourses  int64   `json:"completed_courses"`
		AverageCompletion float64 `json:"average_completion"`
	}
)

// Tổng quan cho giảng viên: số khóa học, học viên và điểm trung bình
func GetInstructorDashboard(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var stats InstructorDashboard
	db.Model(&models.Course{}).
		Where("instructor_id = ?", instructorID).
		Count(&stats.TotalCourses)
	db.Model(&models.Course{}).
		Where("instructor_id = ? AND is_published = ?", instructorID, true).
		Count(&stats.PublishedCourses)
	db.Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Count(&stats.TotalStudents)

	// Trung bình chỉ trên các khóa học đã có đánh giá
	db.Model(&models.Course{}).
		Where("instructor_id = ? AND rating > 0", instructorID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&stats.AverageRating)

	utils.SendResponse(c, http.StatusOK, "Lấy thống kê giảng viên thành công", stats)
}

// Tổng quan cho học viên: số khóa học đang theo và tiến độ trung bình
func GetStudentDashboard(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var stats StudentDashboard
	db.Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Count(&stats.EnrolledCourses)
	db.Model(&models.Enrollment{}).
		Where("student_id = ? AND completion_percentage >= 100", studentID).
		Count(&stats.CompletedCourses)
	db.Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Select("COALESCE(AVG(completion_percentage), 0)").
		Scan(&stats.AverageCompletion)

	utils.SendResponse(c, http.StatusOK, "Lấy thống kê học viên thành công", stats)
}
