package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

func TestToggleCoursePublishRequiresChapter(t *testing.T) {
	tx := beginTx(t)
	svc := NewCurriculumService(tx, NewProgressService(tx, nil))

	instructor := createUser(t, tx, models.RoleInstructor)
	course := models.Course{
		Title:          "Khóa rỗng",
		TitleForSearch: "khoa-rong",
		InstructorID:   instructor.ID,
		Tags:           []string{},
	}
	require.NoError(t, tx.Create(&course).Error)

	_, err := svc.ToggleCoursePublish(course.ID, instructor.ID)
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestToggleCoursePublishOwnership(t *testing.T) {
	tx := beginTx(t)
	svc := NewCurriculumService(tx, NewProgressService(tx, nil))

	owner := createUser(t, tx, models.RoleInstructor)
	intruder := createUser(t, tx, models.RoleInstructor)
	course, _ := createCourseWithContent(t, tx, owner.ID, 1, 0)

	_, err := svc.ToggleCoursePublish(course.ID, intruder.ID)
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestToggleChapterPublishRequiresPublishedLecture(t *testing.T) {
	tx := beginTx(t)
	svc := NewCurriculumService(tx, NewProgressService(tx, nil))

	instructor := createUser(t, tx, models.RoleInstructor)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 0, 0)

	chapter := models.Chapter{CourseID: course.ID, Title: "Chương trống", SortOrder: 2}
	require.NoError(t, tx.Create(&chapter).Error)

	_, err := svc.ToggleChapterPublish(chapter.ID, instructor.ID)
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestToggleLecturePublishRecomputesProgress(t *testing.T) {
	tx := beginTx(t)
	svc := NewCurriculumService(tx, NewProgressService(tx, nil))

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, lectures := createCourseWithContent(t, tx, instructor.ID, 2, 0)
	enroll(t, tx, course.ID, student.ID)

	progress := NewProgressService(tx, nil)
	_, err := progress.MarkLectureComplete(course.ID, student.ID, lectures[0].ID)
	require.NoError(t, err)

	var chapter models.Chapter
	require.NoError(t, tx.First(&chapter, "course_id = ?", course.ID).Error)

	// Gỡ publish bài thứ hai (chưa hoàn thành): mẫu số 1, tiến độ lên 100%
	lecture, err := svc.ToggleLecturePublish(chapter.ID, lectures[1].ID, instructor.ID)
	require.NoError(t, err)
	assert.False(t, lecture.IsPublished)

	var enrollment models.Enrollment
	require.NoError(t, tx.First(&enrollment, "course_id = ? AND student_id = ?", course.ID, student.ID).Error)
	assert.Equal(t, float64(100), enrollment.CompletionPercentage)
}

func TestDeleteChapterPrunesCompletedMaterials(t *testing.T) {
	tx := beginTx(t)
	svc := NewCurriculumService(tx, NewProgressService(tx, nil))

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, lectures := createCourseWithContent(t, tx, instructor.ID, 2, 0)
	enroll(t, tx, course.ID, student.ID)

	progress := NewProgressService(tx, nil)
	_, err := progress.MarkLectureComplete(course.ID, student.ID, lectures[0].ID)
	require.NoError(t, err)

	var chapter models.Chapter
	require.NoError(t, tx.First(&chapter, "course_id = ?", course.ID).Error)
	require.NoError(t, svc.DeleteChapter(chapter.ID, instructor.ID))

	var lectureCount int64
	require.NoError(t, tx.Model(&models.Lecture{}).Where("chapter_id = ?", chapter.ID).Count(&lectureCount).Error)
	assert.Equal(t, int64(0), lectureCount)

	var enrollment models.Enrollment
	require.NoError(t, tx.First(&enrollment, "course_id = ? AND student_id = ?", course.ID, student.ID).Error)
	assert.Empty(t, enrollment.CompletedMaterials)
	assert.Equal(t, float64(0), enrollment.CompletionPercentage)
}

func TestDeleteCourseWithEnrollmentRejected(t *testing.T) {
	tx := beginTx(t)
	svc := NewCurriculumService(tx, NewProgressService(tx, nil))

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 1, 0)
	enroll(t, tx, course.ID, student.ID)

	err := svc.DeleteCourse(course.ID, instructor.ID)
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)

	// khóa học và curriculum còn nguyên
	var courseCount, chapterCount int64
	require.NoError(t, tx.Model(&models.Course{}).Where("id = ?", course.ID).Count(&courseCount).Error)
	assert.Equal(t, int64(1), courseCount)
	require.NoError(t, tx.Model(&models.Chapter{}).Where("course_id = ?", course.ID).Count(&chapterCount).Error)
	assert.Equal(t, int64(1), chapterCount)
}

func TestDeleteCourseCascades(t *testing.T) {
	tx := beginTx(t)
	svc := NewCurriculumService(tx, NewProgressService(tx, nil))

	instructor := createUser(t, tx, models.RoleInstructor)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 2, 1)

	require.NoError(t, svc.DeleteCourse(course.ID, instructor.ID))

	var chapterCount, lectureCount int64
	require.NoError(t, tx.Model(&models.Chapter{}).Where("course_id = ?", course.ID).Count(&chapterCount).Error)
	assert.Equal(t, int64(0), chapterCount)
	require.NoError(t, tx.Model(&models.Lecture{}).
		Joins("JOIN chapters ON chapters.id = lectures.chapter_id").
		Where("chapters.course_id = ?", course.ID).
		Count(&lectureCount).Error)
	assert.Equal(t, int64(0), lectureCount)
}
