package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"uploadapi/internal/service"
)

var uploadFormTmpl = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Upload a file</title>
</head>
<body>
  <h1>Upload a file</h1>
  <form action="/upload" method="post" enctype="multipart/form-data">
    <input type="file" name="file" />
    <button type="submit">Upload</button>
  </form>
  <p><a href="/files">Uploaded files</a> &middot; <a href="/history">Upload history</a></p>
</body>
</html>`))

// uploadResponse acknowledges a stored upload.
type uploadResponse struct {
	Message  string `json:"message"`
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
}

// UploadForm serves the HTML upload form.
func UploadForm() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := uploadFormTmpl.Execute(&buf, nil); err != nil {
			return err
		}
		return c.Type("html").Send(buf.Bytes())
	}
}

// UploadFile accepts one multipart file in the field "file".
//
// @Summary  Upload a file
// @Tags     uploads
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "file to upload"
// @Success  200 {object} uploadResponse
// @Failure  400 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /upload [post]
func UploadFile(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			// A file input submitted without a selection arrives as a plain value field.
			if form, ferr := c.MultipartForm(); ferr == nil {
				if _, ok := form.Value["file"]; ok {
					return writeUploadError(c, service.ErrEmptyFilename)
				}
			}
			return writeUploadError(c, service.ErrMissingFilePart)
		}
		if fh.Filename == "" {
			return writeUploadError(c, service.ErrEmptyFilename)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}

		rec, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeUploadError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(uploadResponse{
			Message:  fmt.Sprintf("File %s uploaded & saved to DB!", rec.Filename),
			ID:       rec.ID,
			Filename: rec.Filename,
		})
	}
}

func writeUploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingFilePart):
		return writeError(c, fiber.StatusBadRequest, "MISSING_FILE_PART", "No file part")
	case errors.Is(err, service.ErrEmptyFilename):
		return writeError(c, fiber.StatusBadRequest, "EMPTY_FILENAME", "No selected file")
	case errors.Is(err, service.ErrInvalidFilename):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
	case errors.Is(err, service.ErrStorageInconsistency):
		return writeError(c, fiber.StatusInternalServerError, "STORAGE_INCONSISTENCY", "Database write failed")
	case errors.Is(err, service.ErrWriteFailed):
		return writeError(c, fiber.StatusInternalServerError, "WRITE_FAILED", "File write failed")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
