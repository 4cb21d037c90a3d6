package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

// CurriculumService giữ các bất biến publish và cascade delete của
// khóa học / chương / bài giảng.
type CurriculumService struct {
	db       *gorm.DB
	progress *ProgressService
}

func NewCurriculumService(db *gorm.DB, progress *ProgressService) *CurriculumService {
	return &CurriculumService{db: db, progress: progress}
}

// FindOwnedCourse chỉ trả về khóa học thuộc về giảng viên đang gọi.
func (s *CurriculumService) FindOwnedCourse(courseID, instructorID uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := s.db.First(&course, "id = ? AND instructor_id = ?", courseID, instructorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("Không tìm thấy khóa học của giảng viên này")
		}
		return nil, err
	}
	return &course, nil
}

// FindOwnedChapter xác nhận chương thuộc một khóa học của giảng viên đang gọi.
func (s *CurriculumService) FindOwnedChapter(chapterID, instructorID uuid.UUID) (*models.Chapter, *models.Course, error) {
	var chapter models.Chapter
	if err := s.db.First(&chapter, "id = ?", chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.NewNotFound("Không tìm thấy chương")
		}
		return nil, nil, err
	}
	course, err := s.FindOwnedCourse(chapter.CourseID, instructorID)
	if err != nil {
		return nil, nil, err
	}
	return &chapter, course, nil
}

// ToggleCoursePublish đảo trạng thái publish. Không cho publish khóa học
// chưa có chương nào.
func (s *CurriculumService) ToggleCoursePublish(courseID, instructorID uuid.UUID) (*models.Course, error) {
	course, err := s.FindOwnedCourse(courseID, instructorID)
	if err != nil {
		return nil, err
	}

	if !course.IsPublished {
		var chapterCount int64
		if err := s.db.Model(&models.Chapter{}).Where("course_id = ?", courseID).Count(&chapterCount).Error; err != nil {
			return nil, err
		}
		if chapterCount == 0 {
			return nil, utils.NewInvalidOperation("Không thể publish khóa học chưa có chương nào")
		}
	}

	course.IsPublished = !course.IsPublished
	if err := s.db.Save(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

// ToggleChapterPublish đảo trạng thái publish của chương. Không cho publish
// chương chưa có bài giảng nào đã publish.
func (s *CurriculumService) ToggleChapterPublish(chapterID, instructorID uuid.UUID) (*models.Chapter, error) {
	chapter, _, err := s.FindOwnedChapter(chapterID, instructorID)
	if err != nil {
		return nil, err
	}

	if !chapter.IsPublished {
		var publishedLectures int64
		err := s.db.Model(&models.Lecture{}).
			Where("chapter_id = ? AND is_published = true", chapterID).
			Count(&publishedLectures).Error
		if err != nil {
			return nil, err
		}
		if publishedLectures == 0 {
			return nil, utils.NewInvalidOperation("Không thể publish chương chưa có bài giảng nào được publish")
		}
	}

	chapter.IsPublished = !chapter.IsPublished
	if err := s.db.Save(chapter).Error; err != nil {
		return nil, err
	}
	return chapter, nil
}

// ToggleLecturePublish đảo trạng thái publish của bài giảng rồi tính lại
// tiến độ của mọi ghi danh theo tập bài giảng mới (kèm fan-out thông báo).
func (s *CurriculumService) ToggleLecturePublish(chapterID, lectureID, instructorID uuid.UUID) (*models.Lecture, error) {
	_, course, err := s.FindOwnedChapter(chapterID, instructorID)
	if err != nil {
		return nil, err
	}

	var lecture models.Lecture
	if err := s.db.First(&lecture, "id = ? AND chapter_id = ?", lectureID, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("Không tìm thấy bài giảng")
		}
		return nil, err
	}

	lecture.IsPublished = !lecture.IsPublished
	if err := s.db.Save(&lecture).Error; err != nil {
		return nil, err
	}

	action := EligibilityRemove
	if lecture.IsPublished {
		action = EligibilityAdd
	}
	if err := s.progress.OnLecturePublishChanged(course.ID, lecture.ID, action); err != nil {
		return nil, err
	}
	return &lecture, nil
}

// DeleteLecture xoá bài giảng: dọn file đã upload (best-effort), xoá bản ghi,
// rút bài khỏi các danh sách đã hoàn thành và tính lại tiến độ.
func (s *CurriculumService) DeleteLecture(chapterID, lectureID, instructorID uuid.UUID) error {
	_, course, err := s.FindOwnedChapter(chapterID, instructorID)
	if err != nil {
		return err
	}

	var lecture models.Lecture
	if err := s.db.First(&lecture, "id = ? AND chapter_id = ?", lectureID, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFound("Không tìm thấy bài giảng")
		}
		return err
	}

	if lecture.URL != "" && (lecture.Type == models.LectureVideo || lecture.Type == models.LecturePDF) {
		if err := utils.DeleteStorageObject(lecture.URL); err != nil {
			log.Println("Không xoá được file của bài giảng:", err)
		}
	}

	if err := s.db.Delete(&lecture).Error; err != nil {
		return err
	}
	return s.progress.OnLecturesRemoved(course.ID, []string{lecture.ID.String()})
}

// DeleteChapter xoá chương và toàn bộ bài giảng của nó, rút các bài đó khỏi
// danh sách đã hoàn thành của mọi ghi danh. Chương biến mất khỏi curriculum
// của khóa học vì quan hệ là khoá ngoại.
func (s *CurriculumService) DeleteChapter(chapterID, instructorID uuid.UUID) error {
	chapter, course, err := s.FindOwnedChapter(chapterID, instructorID)
	if err != nil {
		return err
	}

	var lectureIDs []string
	if err := s.db.Model(&models.Lecture{}).Where("chapter_id = ?", chapterID).Pluck("id", &lectureIDs).Error; err != nil {
		return err
	}

	for _, lecture := range s.lecturesWithAssets(chapterID) {
		if err := utils.DeleteStorageObject(lecture.URL); err != nil {
			log.Println("Không xoá được file của bài giảng:", err)
		}
	}

	if err := s.db.Where("chapter_id = ?", chapterID).Delete(&models.Lecture{}).Error; err != nil {
		return err
	}
	if err := s.db.Delete(chapter).Error; err != nil {
		return err
	}
	return s.progress.OnLecturesRemoved(course.ID, lectureIDs)
}

// DeleteCourse xoá khóa học kéo theo chương và bài giảng của nó. Khóa học
// đã có học viên ghi danh thì không xoá được: ghi danh không bao giờ bị xoá
// theo, và khoá ngoại từ enrollments cũng chặn việc này ở tầng DB.
func (s *CurriculumService) DeleteCourse(courseID, instructorID uuid.UUID) error {
	course, err := s.FindOwnedCourse(courseID, instructorID)
	if err != nil {
		return err
	}

	var enrolled int64
	if err := s.db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&enrolled).Error; err != nil {
		return err
	}
	if enrolled > 0 {
		return utils.NewInvalidOperation("Không thể xóa khóa học đã có học viên ghi danh")
	}

	var chapterIDs []string
	if err := s.db.Model(&models.Chapter{}).Where("course_id = ?", courseID).Pluck("id", &chapterIDs).Error; err != nil {
		return err
	}

	if len(chapterIDs) > 0 {
		if err := s.db.Where("chapter_id IN ?", chapterIDs).Delete(&models.Lecture{}).Error; err != nil {
			return err
		}
		if err := s.db.Where("course_id = ?", courseID).Delete(&models.Chapter{}).Error; err != nil {
			return err
		}
	}
	return s.db.Delete(course).Error
}

func (s *CurriculumService) lecturesWithAssets(chapterID uuid.UUID) []models.Lecture {
	var lectures []models.Lecture
	err := s.db.Where("chapter_id = ? AND url <> '' AND type IN ?", chapterID,
		[]models.LectureType{models.LectureVideo, models.LecturePDF}).
		Find(&lectures).Error
	if err != nil {
		log.Println("Không liệt kê được file của chương:", err)
		return nil
	}
	return lectures
}
