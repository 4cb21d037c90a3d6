package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

func TestRecomputeCompletion(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"chưa có bài nào được tính", 3, 0, 0},
		{"chưa hoàn thành gì", 0, 4, 0},
		{"một nửa", 2, 4, 50},
		{"hoàn thành toàn bộ", 4, 4, 100},
		{"danh sách thừa bài đã gỡ vẫn kẹp ở 100", 5, 4, 100},
		{"mẫu số âm coi như 0", 1, -1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecomputeCompletion(tc.completed, tc.total))
		})
	}
}

func TestMarkLectureCompleteIdempotent(t *testing.T) {
	tx := beginTx(t)
	svc := NewProgressService(tx, nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, lectures := createCourseWithContent(t, tx, instructor.ID, 4, 0)
	enroll(t, tx, course.ID, student.ID)

	first, err := svc.MarkLectureComplete(course.ID, student.ID, lectures[0].ID)
	require.NoError(t, err)
	assert.Equal(t, float64(25), first.CompletionPercentage)

	// Đánh dấu lại cùng bài: thành công, không đổi gì
	second, err := svc.MarkLectureComplete(course.ID, student.ID, lectures[0].ID)
	require.NoError(t, err)
	assert.Equal(t, float64(25), second.CompletionPercentage)
	assert.Len(t, second.CompletedMaterials, 1)
}

func TestMarkLectureCompleteRejectsDraftLecture(t *testing.T) {
	tx := beginTx(t)
	svc := NewProgressService(tx, nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, lectures := createCourseWithContent(t, tx, instructor.ID, 2, 1)
	enroll(t, tx, course.ID, student.ID)

	draft := lectures[2]
	_, err := svc.MarkLectureComplete(course.ID, student.ID, draft.ID)
	require.Error(t, err)

	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestMarkLectureCompleteWithoutEnrollment(t *testing.T) {
	tx := beginTx(t)
	svc := NewProgressService(tx, nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, lectures := createCourseWithContent(t, tx, instructor.ID, 1, 0)

	_, err := svc.MarkLectureComplete(course.ID, student.ID, lectures[0].ID)
	require.Error(t, err)

	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestUnpublishLectureRecomputesProgress(t *testing.T) {
	tx := beginTx(t)
	svc := NewProgressService(tx, nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, lectures := createCourseWithContent(t, tx, instructor.ID, 2, 0)
	enroll(t, tx, course.ID, student.ID)

	// Hoàn thành bài đầu: 50%
	_, err := svc.MarkLectureComplete(course.ID, student.ID, lectures[0].ID)
	require.NoError(t, err)

	// Gỡ publish bài đã hoàn thành: bài bị rút khỏi danh sách, còn 0/1 = 0%
	require.NoError(t, tx.Model(&models.Lecture{}).
		Where("id = ?", lectures[0].ID).
		Update("is_published", false).Error)
	require.NoError(t, svc.OnLecturePublishChanged(course.ID, lectures[0].ID, EligibilityRemove))

	var enrollment models.Enrollment
	require.NoError(t, tx.First(&enrollment, "course_id = ? AND student_id = ?", course.ID, student.ID).Error)
	assert.Equal(t, float64(0), enrollment.CompletionPercentage)
	assert.NotContains(t, enrollment.CompletedMaterials, lectures[0].ID.String())
}

func TestPublishNewLectureGrowsDenominator(t *testing.T) {
	tx := beginTx(t)
	svc := NewProgressService(tx, nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	course, lectures := createCourseWithContent(t, tx, instructor.ID, 1, 1)

	// 10 học viên đã hoàn thành bài duy nhất đang publish
	for i := 0; i < 10; i++ {
		student := createUser(t, tx, models.RoleStudent)
		enroll(t, tx, course.ID, student.ID)
		_, err := svc.MarkLectureComplete(course.ID, student.ID, lectures[0].ID)
		require.NoError(t, err)
	}

	// Publish bài nháp: mẫu số thành 2, mọi học viên về 50%
	draft := lectures[1]
	require.NoError(t, tx.Model(&models.Lecture{}).
		Where("id = ?", draft.ID).
		Update("is_published", true).Error)
	require.NoError(t, svc.OnLecturePublishChanged(course.ID, draft.ID, EligibilityAdd))

	var enrollments []models.Enrollment
	require.NoError(t, tx.Where("course_id = ?", course.ID).Find(&enrollments).Error)
	require.Len(t, enrollments, 10)
	for _, enrollment := range enrollments {
		assert.Equal(t, float64(50), enrollment.CompletionPercentage)
		// bài mới không tự được đánh dấu hoàn thành
		assert.NotContains(t, enrollment.CompletedMaterials, draft.ID.String())
	}
}

func TestEligibleLectureIDsFiltersDrafts(t *testing.T) {
	tx := beginTx(t)
	svc := NewProgressService(tx, nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	course, lectures := createCourseWithContent(t, tx, instructor.ID, 2, 3)

	ids, err := svc.EligibleLectureIDs(course.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, lectures[0].ID.String())
	assert.Contains(t, ids, lectures[1].ID.String())
}

func TestEligibleLectureIDsIgnoresDraftChapter(t *testing.T) {
	tx := beginTx(t)
	svc := NewProgressService(tx, nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 2, 0)

	// Chương nháp chứa bài đã publish: không được tính
	draftChapter := models.Chapter{CourseID: course.ID, Title: "Chương nháp", IsPublished: false, SortOrder: 2}
	require.NoError(t, tx.Create(&draftChapter).Error)
	hidden := models.Lecture{
		ChapterID:   draftChapter.ID,
		Title:       "Bài ẩn",
		Type:        models.LectureArticle,
		ArticleData: "nội dung",
		IsPublished: true,
		SortOrder:   1,
	}
	require.NoError(t, tx.Create(&hidden).Error)

	ids, err := svc.EligibleLectureIDs(course.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.NotContains(t, ids, hidden.ID.String())
}

func TestRemoveIDKeepsOrder(t *testing.T) {
	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()
	got := removeID([]string{a, b, c}, b)
	assert.Equal(t, []string{a, c}, got)
	assert.Equal(t, []string{a, c}, removeID(got, uuid.NewString()))
}
