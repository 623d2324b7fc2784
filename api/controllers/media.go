package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/shadowgallery/shadowgallery-backend/api/responses"
	mediasvc "github.com/shadowgallery/shadowgallery-backend/internal/media"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
)

// multipart parsing buffers up to this much in memory before spilling to disk
const uploadMemoryLimit = 8 << 20

// AdminUploadImage accepts a multipart product image and stores it in the
// bucket.
func AdminUploadImage(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		payload, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upload"))
			return
		}

		output, err := svc.UploadImage(r.Context(), mediasvc.UploadInput{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Payload:     payload,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, output)
	}
}

// AdminDeleteImage removes a previously uploaded object.
func AdminDeleteImage(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		objectKey := strings.TrimSpace(r.URL.Query().Get("key"))
		if objectKey == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "object key is required"))
			return
		}

		if err := svc.DeleteImage(r.Context(), objectKey); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
