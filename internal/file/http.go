package file

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/abduss/uploader/internal/auth"
	"github.com/abduss/uploader/internal/logger"
	"github.com/abduss/uploader/internal/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// formField is the multipart field carrying the file.
const formField = "file"

// multipartOverhead leaves room for boundaries and part headers on top of the
// maximum file size when capping the request body.
const multipartOverhead = 1 << 20

// RegisterRoutes mounts file operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/upload", handler.uploadFile)
	group.GET("/upload/files", handler.listFiles)
	group.DELETE("/upload/:id", handler.deleteFile)
}

type httpHandler struct {
	service *Service
}

type fileResponse struct {
	ID           string    `json:"id"`
	StoredName   string    `json:"storedName"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toResponse(rec Record) fileResponse {
	return fileResponse{
		ID:           rec.ID,
		StoredName:   rec.StoredName,
		OriginalName: rec.OriginalName,
		MimeType:     rec.MimeType,
		Size:         rec.SizeBytes,
		URL:          rec.URL,
		UploadedAt:   rec.CreatedAt.UTC(),
	}
}

func (h *httpHandler) uploadFile(c *gin.Context) {
	userID, ok := auth.OwnerID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxFileSize()+multipartOverhead)

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeUploadError(c, ErrFileTooLarge)
			return
		}
		h.writeUploadError(c, ErrNoFile)
		return
	}

	in, closeFn, err := openUpload(fileHeader)
	if err != nil {
		logger.FromContext(c).Error("open multipart file", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Error processing upload")
		return
	}
	defer closeFn()

	rec, err := h.service.Upload(c.Request.Context(), userID, in)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Created(c, "File uploaded successfully", gin.H{"file": toResponse(rec)})
}

func (h *httpHandler) writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoFile):
		response.Error(c, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, ErrInvalidFileType):
		response.Error(c, http.StatusBadRequest, "Invalid file type. Allowed types: "+AllowedExtensions)
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusBadRequest,
			fmt.Sprintf("File too large. Maximum size is %d bytes", h.service.MaxFileSize()))
	case errors.Is(err, ErrInvalidFileName):
		response.Error(c, http.StatusBadRequest, "Invalid file name")
	case errors.Is(err, ErrStorageWrite):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Error uploading file to cloud storage")
	case errors.Is(err, ErrMetadataWrite):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "File uploaded but error saving metadata")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Error processing upload")
	}
}

func (h *httpHandler) listFiles(c *gin.Context) {
	userID, ok := auth.OwnerID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	records, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Error fetching files")
		return
	}

	files := make([]fileResponse, 0, len(records))
	for _, rec := range records {
		files = append(files, toResponse(rec))
	}
	response.List(c, len(files), gin.H{"files": files})
}

func (h *httpHandler) deleteFile(c *gin.Context) {
	userID, ok := auth.OwnerID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "File not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Error deleting file")
		return
	}

	response.OK(c, "File deleted successfully", nil)
}

func openUpload(fileHeader *multipart.FileHeader) (*Upload, func(), error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload file: %w", err)
	}
	return &Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
