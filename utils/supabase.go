package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

const storageBucket = "uploads"

func storageClient() *storage.Client {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	return storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)
}

func publicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", os.Getenv("SUPABASE_URL"), storageBucket, objectPath)
}

// UploadLectureAsset upload video/pdf của bài giảng lên Supabase Storage.
// Path: uploads/course-assets/<fileID>.<ext>
func UploadLectureAsset(fileHeader *multipart.FileHeader, fileID string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fmt.Sprintf("course-assets/%s%s", fileID, ext)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient().UploadFile(storageBucket, objectPath, &buf, options); err != nil {
		return "", err
	}
	return publicURL(objectPath), nil
}

// UploadCourseThumbnail upload ảnh bìa khóa học.
// Path: uploads/course-thumbnails/<fileID>.<ext>
func UploadCourseThumbnail(fileHeader *multipart.FileHeader, fileID string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	objectPath := fmt.Sprintf("course-thumbnails/%s%s", fileID, ext)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient().UploadFile(storageBucket, objectPath, &buf, options); err != nil {
		return "", err
	}
	return publicURL(objectPath), nil
}

// DeleteStorageObject xoá file đã upload, nhận public URL trả về từ các hàm trên.
func DeleteStorageObject(fileURL string) error {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", os.Getenv("SUPABASE_URL"), storageBucket)
	objectPath := strings.TrimPrefix(fileURL, prefix)
	if objectPath == "" || objectPath == fileURL {
		return fmt.Errorf("URL không thuộc bucket %s: %s", storageBucket, fileURL)
	}
	_, err := storageClient().RemoveFile(storageBucket, []string{objectPath})
	return err
}
