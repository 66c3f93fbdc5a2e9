package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"webshop/shop-service/internal/app/shop/entity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5MB

// Разрешенные расширения для загружаемых изображений
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadHandler обрабатывает загрузку изображений товаров
// Загрузка доступна только администратору, раздача файлов публичная
type UploadHandler struct {
	uploadDir string
}

// NewUploadHandler создает новый обработчик загрузки
// Каталог для файлов создается при старте
func NewUploadHandler(uploadDir string) (*UploadHandler, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}

	return &UploadHandler{uploadDir: uploadDir}, nil
}

// UploadImage обрабатывает POST /upload/image
// Принимает multipart файл, проверяет расширение, размер и содержимое,
// сохраняет под именем <uuid><ext>
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid file type",
			"message": "Allowed extensions: .jpg, .jpeg, .png, .gif, .webp",
		})
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "File too large",
			"message": "Maximum file size is 5MB",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	// Проверяем содержимое по первым байтам, а не только по расширению
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid file content",
			"message": "File is not an image",
		})
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	// Имя файла генерируется заново, клиентское имя не используется
	filename := uuid.New().String() + ext
	dstPath := filepath.Join(h.uploadDir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dstPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusCreated, entity.UploadResponse{
		Filename: filename,
		URL:      "/upload/uploads/" + filename,
	})
}

// ServeImage обрабатывает GET /upload/uploads/{filename}
// Отдает ранее загруженный файл
func (h *UploadHandler) ServeImage(c *gin.Context) {
	// Base отсекает попытки выхода из каталога загрузок
	filename := filepath.Base(c.Param("filename"))

	path := filepath.Join(h.uploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.File(path)
}
