package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

type CreateChapterInput struct {
	Title string `json:"title" binding:"required"`
}

type UpdateChapterInput struct {
	Title     string `json:"title"`
	SortOrder *int   `json:"sort_order" binding:"omitempty,min=1"`
}

// Thêm chương vào cuối khóa học
func CreateChapter(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("courseId không hợp lệ", nil))
		return
	}

	var input CreateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	course, err := curriculumService.FindOwnedCourse(courseID, instructorID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	var maxOrder int
	db.Model(&models.Chapter{}).
		Where("course_id = ?", course.ID).
		Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)

	chapter := models.Chapter{
		CourseID:    course.ID,
		Title:       input.Title,
		IsPublished: false,
		SortOrder:   maxOrder + 1,
	}
	if err := db.Create(&chapter).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Tạo chương thành công", chapter)
}

func UpdateChapter(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	chapterID, err := uuid.Parse(c.Param("chapterId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("chapterId không hợp lệ", nil))
		return
	}

	var input UpdateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	chapter, _, err := curriculumService.FindOwnedChapter(chapterID, instructorID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	if input.Title != "" {
		chapter.Title = input.Title
	}
	if input.SortOrder != nil {
		chapter.SortOrder = *input.SortOrder
	}

	if err := db.Save(chapter).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Cập nhật chương thành công", chapter)
}

// Bật / tắt xuất bản chương; chỉ xuất bản được khi có ít nhất một bài giảng đã xuất bản
func ToggleChapterPublish(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	chapterID, err := uuid.Parse(c.Param("chapterId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("chapterId không hợp lệ", nil))
		return
	}

	chapter, err := curriculumService.ToggleChapterPublish(chapterID, instructorID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	message := "Đã gỡ xuất bản chương"
	if chapter.IsPublished {
		message = "Đã xuất bản chương"
	}
	utils.SendResponse(c, http.StatusOK, message, chapter)
}

func DeleteChapter(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	chapterID, err := uuid.Parse(c.Param("chapterId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("chapterId không hợp lệ", nil))
		return
	}

	if err := curriculumService.DeleteChapter(chapterID, instructorID); err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Xóa chương thành công", nil)
}

// Danh sách chương (kèm bài giảng) của một khóa học thuộc giảng viên
func GetChapters(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("courseId không hợp lệ", nil))
		return
	}

	if _, err := curriculumService.FindOwnedCourse(courseID, instructorID); err != nil {
		utils.SendError(c, err)
		return
	}

	var chapters []models.Chapter
	if err := db.Where("course_id = ?", courseID).
		Preload("Lectures", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC")
		}).
		Order("sort_order ASC").
		Find(&chapters).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Lấy danh sách chương thành công", chapters)
}
