package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

type CreateCheckoutInput struct {
	CourseID string  `json:"course_id" binding:"required,uuid"`
	Amount   float64 `json:"amount" binding:"required,min=0"`
}

type ConfirmPaymentInput struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Tạo phiên thanh toán cho khóa học có phí.
// Số tiền client gửi lên phải khớp giá hiện tại của khóa học.
func CreateCheckoutSession(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var input CreateCheckoutInput
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
	if course.Cost <= 0 {
		utils.SendError(c, utils.NewInvalidOperation("Khóa học miễn phí, không cần thanh toán"))
		return
	}
	if input.Amount != course.Cost {
		utils.SendError(c, utils.NewInvalidOperation("Số tiền không khớp với giá khóa học"))
		return
	}

	var existing models.Enrollment
	if err := db.First(&existing, "course_id = ? AND student_id = ?", courseID, studentID).Error; err == nil {
		utils.SendError(c, utils.NewInvalidOperation("Bạn đã ghi danh khóa học này"))
		return
	}

	payment := models.Payment{
		Status:    models.PaymentPending,
		SessionID: "cs_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		StudentID: studentID,
		CourseID:  courseID,
		Amount:    course.Cost,
	}
	if err := db.Create(&payment).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Tạo phiên thanh toán thành công", gin.H{
		"session_id": payment.SessionID,
		"amount":     payment.Amount,
		"course_id":  payment.CourseID,
	})
}

// Xác nhận thanh toán và ghi danh học viên vào khóa học
func ConfirmPayment(c *gin.Context) {
	studentID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var input ConfirmPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	var payment models.Payment
	if err := db.First(&payment, "session_id = ?", input.SessionID).Error; err != nil {
		utils.SendError(c, utils.NewNotFound("Không tìm thấy phiên thanh toán"))
		return
	}
	if payment.StudentID != studentID {
		utils.SendError(c, utils.NewNotFound("Không tìm thấy phiên thanh toán"))
		return
	}
	if payment.Status != models.PaymentPending {
		utils.SendError(c, utils.NewInvalidOperation("Phiên thanh toán đã được xử lý"))
		return
	}

	enrollment, err := enrollmentService.EnrollStudent(payment.CourseID, payment.StudentID, &payment.ID)
	if err != nil {
		// Ghi danh thất bại thì đánh dấu phiên để đối soát thủ công
		db.Model(&payment).Update("status", models.PaymentFailed)
		utils.SendError(c, err)
		return
	}

	if err := db.Model(&payment).Update("status", models.PaymentSuccessful).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Thanh toán thành công", gin.H{
		"payment_id": payment.ID,
		"enrollment": enrollment,
	})
}
