package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/url"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"uploadapi/internal/model"
	"uploadapi/internal/service"
)

var filesTmpl = template.Must(template.New("files").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Uploaded files</title>
</head>
<body>
  <h1>Uploaded files</h1>
  <ul>
  {{- range .}}
    <li><a href="/uploads/{{.Name}}">{{.Name}}</a> ({{.Size}} bytes)</li>
  {{- else}}
    <li>No files uploaded yet.</li>
  {{- end}}
  </ul>
  <p><a href="/">Upload another file</a></p>
</body>
</html>`))

// ListFiles lists the files currently in the Storage Directory.
// Browsers asking for text/html get a page of links; everything else gets JSON.
//
// @Summary  List stored files
// @Tags     uploads
// @Produce  json,html
// @Success  200 {array} model.StoredFile
// @Failure  500 {object} errorPayload
// @Router   /files [get]
func ListFiles(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.ListFiles(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML {
			return renderFiles(c, files)
		}
		return c.JSON(files)
	}
}

func renderFiles(c *fiber.Ctx, files []model.StoredFile) error {
	var buf bytes.Buffer
	if err := filesTmpl.Execute(&buf, files); err != nil {
		return err
	}
	return c.Type("html").Send(buf.Bytes())
}

// ServeFile streams one stored file.
//
// @Summary  Download a stored file
// @Tags     uploads
// @Produce  octet-stream
// @Param    filename path string true "stored file name"
// @Success  200 {file} file
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /uploads/{filename} [get]
func ServeFile(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("filename"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		}

		rc, info, err := svc.Open(c.UserContext(), name)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidFilename):
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "File not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		ct := info.ContentType
		if ct == "" {
			ct = utils.GetMIME(filepath.Ext(name))
		}
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, ct)
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(info.Size))
	}
}

// History returns every upload record, most recent first.
//
// @Summary  Upload history
// @Tags     uploads
// @Produce  json
// @Success  200 {array} model.UploadRecord
// @Failure  500 {object} errorPayload
// @Router   /history [get]
func History(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.History(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}
