package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megan-fernandes/edulearn-server/models"
	"github.com/megan-fernandes/edulearn-server/utils"
)

func TestEnrollStudent(t *testing.T) {
	tx := beginTx(t)
	svc := NewEnrollmentService(tx, NewChatService(tx, nil), nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 1, 0)

	enrollment, err := svc.EnrollStudent(course.ID, student.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(0), enrollment.CompletionPercentage)
	assert.Empty(t, enrollment.CompletedMaterials)

	// Danh bạ được nối hai chiều
	var contacts []models.Contact
	require.NoError(t, tx.Where(
		"(primary_user_id = ? AND other_user_id = ?) OR (primary_user_id = ? AND other_user_id = ?)",
		student.ID, instructor.ID, instructor.ID, student.ID,
	).Find(&contacts).Error)
	assert.Len(t, contacts, 2)
}

func TestEnrollStudentTwiceFails(t *testing.T) {
	tx := beginTx(t)
	svc := NewEnrollmentService(tx, NewChatService(tx, nil), nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 1, 0)

	_, err := svc.EnrollStudent(course.ID, student.ID, nil)
	require.NoError(t, err)

	_, err = svc.EnrollStudent(course.ID, student.ID, nil)
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestEnrollStudentDraftCourse(t *testing.T) {
	tx := beginTx(t)
	svc := NewEnrollmentService(tx, NewChatService(tx, nil), nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 1, 0)
	require.NoError(t, tx.Model(course).Update("is_published", false).Error)

	_, err := svc.EnrollStudent(course.ID, student.ID, nil)
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestRateCourseWriteOnce(t *testing.T) {
	tx := beginTx(t)
	svc := NewEnrollmentService(tx, NewChatService(tx, nil), nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	student := createUser(t, tx, models.RoleStudent)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 1, 0)

	_, err := svc.EnrollStudent(course.ID, student.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RateCourse(course.ID, student.ID, 4.5, "Rất hay"))

	err = svc.RateCourse(course.ID, student.ID, 5, "đổi ý")
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestRateCourseAverageCountsUnrated(t *testing.T) {
	tx := beginTx(t)
	svc := NewEnrollmentService(tx, NewChatService(tx, nil), nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 1, 0)

	rater := createUser(t, tx, models.RoleStudent)
	silent := createUser(t, tx, models.RoleStudent)
	_, err := svc.EnrollStudent(course.ID, rater.ID, nil)
	require.NoError(t, err)
	_, err = svc.EnrollStudent(course.ID, silent.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RateCourse(course.ID, rater.ID, 4, ""))

	// Học viên chưa đánh giá vẫn nằm trong mẫu số: 4 / 2 = 2
	var got models.Course
	require.NoError(t, tx.First(&got, "id = ?", course.ID).Error)
	assert.Equal(t, float64(2), got.Rating)
}

func TestRateCourseRequiresEnrollment(t *testing.T) {
	tx := beginTx(t)
	svc := NewEnrollmentService(tx, NewChatService(tx, nil), nil)

	instructor := createUser(t, tx, models.RoleInstructor)
	outsider := createUser(t, tx, models.RoleStudent)
	course, _ := createCourseWithContent(t, tx, instructor.ID, 1, 0)

	err := svc.RateCourse(course.ID, outsider.ID, 5, "")
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}
