package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

type CreateCourseInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Level       string   `json:"level" binding:"omitempty,oneof=beginner intermediate expert all"`
	Cost        float64  `json:"cost" binding:"omitempty,min=0"`
}

type UpdateCourseInput struct {
	Title       string   `form:"title"`
	Description string   `form:"description"`
	Tags        []string `form:"tags"`
	Level       string   `form:"level" binding:"omitempty,oneof=beginner intermediate expert all"`
	Cost        *float64 `form:"cost" binding:"omitempty,min=0"`
	// removeThumbnail=true xoá ảnh bìa hiện tại mà không thay ảnh mới
	RemoveThumbnail bool `form:"remove_thumbnail"`
}

// Tạo khóa học mới (luôn ở trạng thái nháp)
func CreateCourse(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
		return
	}

	var input CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	titleForSearch := slug.Make(input.Title)

	// Chống trùng tên: so sánh trên bản đã chuẩn hoá
	var existing models.Course
	if err := db.Where("title_for_search = ?", titleForSearch).First(&existing).Error; err == nil {
		utils.SendError(c, utils.NewInvalidOperation("Tên khóa học đã tồn tại"))
		return
	}

	level := models.CourseLevel(input.Level)
	if level == "" {
		level = models.LevelAll
	}

	course := models.Course{
		Title:          input.Title,
		TitleForSearch: titleForSearch,
		Description:    input.Description,
		Tags:           input.Tags,
		Level:          level,
		Cost:           input.Cost,
		InstructorID:   instructorID,
		IsPublished:    false,
	}
	if course.Tags == nil {
		course.Tags = []string{}
	}

	if err := db.Create(&course).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Tạo khóa học thành công", course)
}

// Cập nhật thông tin cơ bản + ảnh bìa (multipart)
func UpdateCourse(c *gin.Context) {
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

	course, err := curriculumService.FindOwnedCourse(courseID, instructorID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	var input UpdateCourseInput
	if err := c.ShouldBind(&input); err != nil {
		utils.SendError(c, utils.NewValidationFailed(err.Error(), nil))
		return
	}

	if input.Title != "" && input.Title != course.Title {
		titleForSearch := slug.Make(input.Title)
		var existing models.Course
		if err := db.Where("title_for_search = ? AND id <> ?", titleForSearch, course.ID).
			First(&existing).Error; err == nil {
			utils.SendError(c, utils.NewInvalidOperation("Tên khóa học đã tồn tại"))
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, err)
			return
		}
		course.Title = input.Title
		course.TitleForSearch = titleForSearch
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Tags != nil {
		course.Tags = input.Tags
	}
	if input.Level != "" {
		course.Level = models.CourseLevel(input.Level)
	}
	if input.Cost != nil {
		course.Cost = *input.Cost
	}

	// Ảnh bìa: file mới thay thế ảnh cũ; remove_thumbnail chỉ xoá
	if thumbFile, ferr := c.FormFile("thumbnail"); ferr == nil {
		if course.Thumbnail != "" {
			if derr := utils.DeleteStorageObject(course.Thumbnail); derr != nil {
				// ảnh cũ mồ côi trên storage không chặn việc cập nhật
				log.Println("Không thể xóa ảnh bìa cũ:", derr)
			}
		}
		thumbnailURL, uerr := utils.UploadCourseThumbnail(thumbFile, uuid.New().String())
		if uerr != nil {
			utils.SendError(c, utils.NewInvalidOperation("Không thể upload ảnh bìa"))
			return
		}
		course.Thumbnail = thumbnailURL
	} else if input.RemoveThumbnail && course.Thumbnail != "" {
		if derr := utils.DeleteStorageObject(course.Thumbnail); derr != nil {
			log.Println("Không thể xóa ảnh bìa:", derr)
		}
		course.Thumbnail = ""
	}

	if err := db.Save(course).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Cập nhật khóa học thành công", course)
}

// Bật / tắt trạng thái xuất bản của khóa học
func ToggleCoursePublish(c *gin.Context) {
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

	course, err := curriculumService.ToggleCoursePublish(courseID, instructorID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	message := "Đã gỡ xuất bản khóa học"
	if course.IsPublished {
		message = "Đã xuất bản khóa học"
	}
	utils.SendResponse(c, http.StatusOK, message, course)
}

func DeleteCourse(c *gin.Context) {
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

	if err := curriculumService.DeleteCourse(courseID, instructorID); err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Xóa khóa học thành công", nil)
}

// Danh sách / chi tiết khóa học.
// view=cms: giảng viên xem khóa học của mình (kể cả nháp).
// view=website: chỉ khóa học đã xuất bản, curriculum lọc theo trạng thái xuất bản.
func GetCourses(c *gin.Context) {
	view := c.DefaultQuery("view", "website")
	search := strings.TrimSpace(c.Query("search"))
	courseIDStr := c.Query("courseId")
	offset, limit := pagination(c)

	query := db.Model(&models.Course{}).
		Preload("Instructor", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "full_name", "email")
		})

	switch view {
	case "cms":
		instructorID, ok := currentUserID(c)
		if !ok {
			utils.SendError(c, utils.NewUnauthorized("Phiên đăng nhập không hợp lệ"))
			return
		}
		role, _ := c.Get("role")
		if role != string(models.RoleAdmin) {
			query = query.Where("instructor_id = ?", instructorID)
		}
		query = query.
			Preload("Chapters", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("sort_order ASC")
			}).
			Preload("Chapters.Lectures", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("sort_order ASC")
			})
	case "website":
		query = query.Where("is_published = ?", true).
			Preload("Chapters", func(tx *gorm.DB) *gorm.DB {
				return tx.Where("is_published = ?", true).Order("sort_order ASC")
			}).
			Preload("Chapters.Lectures", func(tx *gorm.DB) *gorm.DB {
				return tx.Where("is_published = ?", true).Order("sort_order ASC")
			})
	default:
		utils.SendError(c, utils.NewValidationFailed("view phải là cms hoặc website", nil))
		return
	}

	if courseIDStr != "" {
		courseID, err := uuid.Parse(courseIDStr)
		if err != nil {
			utils.SendError(c, utils.NewValidationFailed("courseId không hợp lệ", nil))
			return
		}
		var course models.Course
		if err := query.First(&course, "courses.id = ?", courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.SendError(c, utils.NewNotFound("Không tìm thấy khóa học"))
				return
			}
			utils.SendError(c, err)
			return
		}
		utils.SendResponse(c, http.StatusOK, "Lấy khóa học thành công", course)
		return
	}

	if search != "" {
		query = query.Where("title_for_search LIKE ?", "%"+slug.Make(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Lấy danh sách khóa học thành công", gin.H{
		"courses": courses,
		"total":   total,
	})
}

// Danh sách đánh giá của một khóa học đã xuất bản
func GetCourseReviews(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("courseId không hợp lệ", nil))
		return
	}

	var course models.Course
	if err := db.First(&course, "id = ? AND is_published = ?", courseID, true).Error; err != nil {
		utils.SendError(c, utils.NewNotFound("Không tìm thấy khóa học"))
		return
	}

	var reviews []models.Enrollment
	if err := db.Where("course_id = ? AND (rating_by_student > 0 OR review_by_student <> '')", courseID).
		Preload("Student", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "full_name")
		}).
		Order("updated_at DESC").
		Find(&reviews).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	type reviewItem struct {
		StudentID   uuid.UUID `json:"student_id"`
		StudentName string    `json:"student_name"`
		Rating      float64   `json:"rating"`
		Review      string    `json:"review"`
	}
	items := make([]reviewItem, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, reviewItem{
			StudentID:   r.StudentID,
			StudentName: r.Student.FullName,
			Rating:      r.RatingByStudent,
			Review:      r.ReviewByStudent,
		})
	}

	utils.SendResponse(c, http.StatusOK, "Lấy đánh giá thành công", gin.H{
		"average_rating": course.Rating,
		"reviews":        items,
	})
}
