package services

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/megan-fernandes/edulearn-server/models"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	testDB *gorm.DB
	dbErr  error
)

// openTestDB mở kết nối dùng chung cho các test tích hợp. Không có
// TEST_POSTGRES_DSN thì skip thay vì fail.
func openTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			dbErr = errMissingDSN
			return
		}

		testDB, dbErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if dbErr != nil {
			return
		}

		dbErr = testDB.AutoMigrate(
			&models.User{},
			&models.Course{},
			&models.Chapter{},
			&models.Lecture{},
			&models.Enrollment{},
			&models.Contact{},
			&models.Chat{},
			&models.ChatMessage{},
			&models.Payment{},
			&models.Notification{},
		)
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return testDB
}

// beginTx bọc mỗi test trong một transaction được rollback lúc cleanup.
func beginTx(tb testing.TB) *gorm.DB {
	tb.Helper()
	tx := openTestDB(tb).Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func createUser(tb testing.TB, tx *gorm.DB, role models.UserRole) *models.User {
	tb.Helper()
	user := models.User{
		FullName: fmt.Sprintf("Người dùng %s", uuid.NewString()[:8]),
		Email:    uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := tx.Create(&user).Error; err != nil {
		tb.Fatalf("create user: %v", err)
	}
	return &user
}

// createCourseWithContent dựng một khóa học đã publish với một chương đã
// publish chứa publishedLectures bài giảng đã publish và draftLectures bài nháp.
func createCourseWithContent(tb testing.TB, tx *gorm.DB, instructorID uuid.UUID, publishedLectures, draftLectures int) (*models.Course, []models.Lecture) {
	tb.Helper()

	course := models.Course{
		Title:          "Khóa học " + uuid.NewString()[:8],
		TitleForSearch: "khoa-hoc-" + uuid.NewString(),
		InstructorID:   instructorID,
		IsPublished:    true,
		Tags:           []string{},
	}
	if err := tx.Create(&course).Error; err != nil {
		tb.Fatalf("create course: %v", err)
	}

	chapter := models.Chapter{
		CourseID:    course.ID,
		Title:       "Chương 1",
		IsPublished: true,
		SortOrder:   1,
	}
	if err := tx.Create(&chapter).Error; err != nil {
		tb.Fatalf("create chapter: %v", err)
	}

	var lectures []models.Lecture
	for i := 0; i < publishedLectures+draftLectures; i++ {
		lecture := models.Lecture{
			ChapterID:   chapter.ID,
			Title:       fmt.Sprintf("Bài %d", i+1),
			Type:        models.LectureArticle,
			ArticleData: "nội dung",
			IsPublished: i < publishedLectures,
			SortOrder:   i + 1,
		}
		if err := tx.Create(&lecture).Error; err != nil {
			tb.Fatalf("create lecture: %v", err)
		}
		lectures = append(lectures, lecture)
	}
	return &course, lectures
}

func enroll(tb testing.TB, tx *gorm.DB, courseID, studentID uuid.UUID) *models.Enrollment {
	tb.Helper()
	enrollment := models.Enrollment{
		CourseID:           courseID,
		StudentID:          studentID,
		CompletedMaterials: []string{},
	}
	if err := tx.Create(&enrollment).Error; err != nil {
		tb.Fatalf("create enrollment: %v", err)
	}
	return &enrollment
}
