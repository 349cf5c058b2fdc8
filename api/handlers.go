package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pdf_optimizer/batch"
	"pdf_optimizer/pdf"
)

func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pdf_optimizer",
	})
}

// HandleCompress compresses every uploaded PDF, applies the metadata fields
// and answers with the single file or a zip archive.
func (h *Handler) HandleCompress(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestSize())

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request exceeds %d bytes", maxErr.Limit)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	var headers []*multipart.FileHeader
	for _, field := range uploadFields {
		headers = append(headers, form.File[field]...)
	}
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if len(headers) > h.config.MaxBatchFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("too many files: %d (maximum %d)", len(headers), h.config.MaxBatchFiles)})
		return
	}

	var overrides pdf.Overrides
	if err := c.ShouldBind(&overrides); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid metadata fields"})
		return
	}
	if overrides.CreatedAt == "" {
		overrides.CreatedAt = c.PostForm(legacyCreatedField)
	}
	if overrides.ModifiedAt == "" {
		overrides.ModifiedAt = c.PostForm(legacyModifiedField)
	}

	files := make([]batch.UploadedFile, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range headers {
		upload := batch.UploadedFile{Filename: sanitizeFilename(header.Filename)}
		file, err := openPDFFile(header, h.config.MaxFileSize)
		if err != nil {
			upload.Reject = err
		} else {
			opened = append(opened, file)
			upload.Content = file
		}
		files = append(files, upload)
	}

	bundle, err := h.processor.Process(c.Request.Context(), batch.Request{
		Files:     files,
		Level:     parseLevel(firstPostForm(c, levelFields...)),
		Overrides: overrides,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	done, failed, skipped := bundle.Counts()
	c.Header(HeaderFilesSucceeded, strconv.Itoa(done))
	c.Header(HeaderFilesFailed, strconv.Itoa(failed))
	c.Header(HeaderFilesSkipped, strconv.Itoa(skipped))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.Filename))
	c.Data(http.StatusOK, bundle.ContentType, bundle.Data)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var batchErr *batch.BatchError
	switch {
	case errors.As(err, &batchErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "No file could be processed",
			"files": batchErr.Files,
		})
	case errors.Is(err, pdf.ErrEngineNotFound):
		h.logger.Error("Compression engine unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Compression engine unavailable"})
	default:
		h.logger.Error("Batch processing error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": truncateMessage(err.Error())})
	}
}

func (h *Handler) maxRequestSize() int64 {
	return h.config.MaxFileSize*int64(h.config.MaxBatchFiles) + multipartOverhead
}

// parseLevel maps the level field to a quality tier, defaulting to 2
func parseLevel(value string) pdf.Level {
	code, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		code = DefaultLevelCode
	}
	return pdf.ParseLevel(code)
}

// firstPostForm returns the first non-empty value among the given fields
func firstPostForm(c *gin.Context, fields ...string) string {
	for _, field := range fields {
		if v := strings.TrimSpace(c.PostForm(field)); v != "" {
			return v
		}
	}
	return ""
}

// openPDFFile opens an upload after checking its size and PDF header
func openPDFFile(header *multipart.FileHeader, maxSize int64) (multipart.File, error) {
	if header.Size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds maximum allowed %d bytes", batch.ErrFileTooLarge, header.Size, maxSize)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}

	if err := validatePDFHeader(file); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

// validatePDFHeader checks the %PDF magic and rewinds the file
func validatePDFHeader(file multipart.File) error {
	buffer := make([]byte, 4)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read file header: %w", err)
	}

	if n < 4 || string(buffer) != "%PDF" {
		return fmt.Errorf("%w: header does not match", batch.ErrUnsupportedFileType)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file position: %w", err)
	}
	return nil
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	filename = filepath.Base(filename)
	filename = strings.TrimSpace(filename)

	if filename == "" || filename == "." {
		filename = "document.pdf"
	}
	return filename
}

func truncateMessage(msg string) string {
	if len(msg) > MaxErrorMessageLength {
		return msg[:MaxErrorMessageLength] + "..."
	}
	if msg == "" {
		return "PDF operation failed"
	}
	return msg
}
