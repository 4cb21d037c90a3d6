package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

// Tạo bài giảng (multipart). Nội dung phụ thuộc type:
//   - video/pdf: file upload hoặc url link ngoài
//   - url:       bắt buộc url
//   - article:   bắt buộc article_data
func CreateLecture(c *gin.Context) {
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

	chapter, _, err := curriculumService.FindOwnedChapter(chapterID, instructorID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		utils.SendError(c, utils.NewValidationFailed("Thiếu tiêu đề bài giảng", nil))
		return
	}
	lectureType := models.LectureType(c.PostForm("type"))

	contentURL, articleData, err := resolveLectureContent(c, lectureType)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	var maxOrder int
	db.Model(&models.Lecture{}).
		Where("chapter_id = ?", chapter.ID).
		Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)

	lecture := models.Lecture{
		ChapterID:   chapter.ID,
		Title:       title,
		Description: c.PostForm("description"),
		Type:        lectureType,
		URL:         contentURL,
		ArticleData: articleData,
		IsPublished: false,
		SortOrder:   maxOrder + 1,
	}
	if err := db.Create(&lecture).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Tạo bài giảng thành công", lecture)
}

// Cập nhật bài giảng; đổi nội dung sẽ xóa file cũ trên storage nếu có
func UpdateLecture(c *gin.Context) {
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
	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("lectureId không hợp lệ", nil))
		return
	}

	if _, _, err := curriculumService.FindOwnedChapter(chapterID, instructorID); err != nil {
		utils.SendError(c, err)
		return
	}

	var lecture models.Lecture
	if err := db.First(&lecture, "id = ? AND chapter_id = ?", lectureID, chapterID).Error; err != nil {
		utils.SendError(c, utils.NewNotFound("Không tìm thấy bài giảng"))
		return
	}

	if title := strings.TrimSpace(c.PostForm("title")); title != "" {
		lecture.Title = title
	}
	if description := c.PostForm("description"); description != "" {
		lecture.Description = description
	}
	if sortOrderStr := c.PostForm("sort_order"); sortOrderStr != "" {
		sortOrder, err := strconv.Atoi(sortOrderStr)
		if err != nil || sortOrder < 1 {
			utils.SendError(c, utils.NewValidationFailed("sort_order không hợp lệ", nil))
			return
		}
		lecture.SortOrder = sortOrder
	}

	if typeStr := c.PostForm("type"); typeStr != "" {
		newType := models.LectureType(typeStr)
		contentURL, articleData, err := resolveLectureContent(c, newType)
		if err != nil {
			utils.SendError(c, err)
			return
		}
		// Nội dung cũ là file đã upload thì dọn khỏi storage (best-effort,
		// link ngoài không phải của mình thì bỏ qua)
		if lecture.URL != "" && lecture.URL != contentURL &&
			(lecture.Type == models.LectureVideo || lecture.Type == models.LecturePDF) {
			if derr := utils.DeleteStorageObject(lecture.URL); derr != nil {
				log.Println("Không xóa được nội dung cũ của bài giảng:", derr)
			}
		}
		lecture.Type = newType
		lecture.URL = contentURL
		lecture.ArticleData = articleData
	}

	if err := db.Save(&lecture).Error; err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Cập nhật bài giảng thành công", lecture)
}

// Bật / tắt xuất bản bài giảng; tiến độ học viên được tính lại ngay sau đó
func ToggleLecturePublish(c *gin.Context) {
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
	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("lectureId không hợp lệ", nil))
		return
	}

	lecture, err := curriculumService.ToggleLecturePublish(chapterID, lectureID, instructorID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	message := "Đã gỡ xuất bản bài giảng"
	if lecture.IsPublished {
		message = "Đã xuất bản bài giảng"
	}
	utils.SendResponse(c, http.StatusOK, message, lecture)
}

func DeleteLecture(c *gin.Context) {
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
	lectureID, err := uuid.Parse(c.Param("lectureId"))
	if err != nil {
		utils.SendError(c, utils.NewValidationFailed("lectureId không hợp lệ", nil))
		return
	}

	if err := curriculumService.DeleteLecture(chapterID, lectureID, instructorID); err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Xóa bài giảng thành công", nil)
}

// resolveLectureContent đọc nội dung multipart theo type và upload file nếu có.
func resolveLectureContent(c *gin.Context, lectureType models.LectureType) (contentURL, articleData string, err error) {
	switch lectureType {
	case models.LectureVideo, models.LecturePDF:
		if file, ferr := c.FormFile("file"); ferr == nil {
			uploadedURL, uerr := utils.UploadLectureAsset(file, uuid.New().String())
			if uerr != nil {
				return "", "", utils.NewInvalidOperation("Không thể upload nội dung bài giảng")
			}
			return uploadedURL, "", nil
		}
		if link := strings.TrimSpace(c.PostForm("url")); link != "" {
			return link, "", nil
		}
		return "", "", utils.NewValidationFailed("Bài giảng video/pdf cần file hoặc url", nil)
	case models.LectureURL:
		link := strings.TrimSpace(c.PostForm("url"))
		if link == "" {
			return "", "", utils.NewValidationFailed("Bài giảng dạng liên kết cần url", nil)
		}
		return link, "", nil
	case models.LectureArticle:
		article := strings.TrimSpace(c.PostForm("article_data"))
		if article == "" {
			return "", "", utils.NewValidationFailed("Bài giảng dạng bài viết cần article_data", nil)
		}
		return "", article, nil
	default:
		return "", "", utils.NewValidationFailed("type phải là video, pdf, article hoặc url", nil)
	}
}
