package media

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shadowgallery/shadowgallery-backend/pkg/config"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
)

var allowedImageMimeTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

type objectUploader interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, payload []byte) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service handles image uploads for product art and profile photos. Files go
// straight to the bucket; the returned public URL is what gets stored on the
// product or user row.
type Service interface {
	UploadImage(ctx context.Context, input UploadInput) (*UploadOutput, error)
	DeleteImage(ctx context.Context, objectKey string) error
}

type service struct {
	gcs        objectUploader
	bucket     string
	maxBytes   int64
	pathPrefix string
}

// NewService constructs the media service.
func NewService(gcs objectUploader, gcsCfg config.GCSConfig, mediaCfg config.MediaConfig) (Service, error) {
	if gcs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gcs client is required")
	}
	if gcsCfg.BucketName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gcs bucket is required")
	}
	if mediaCfg.MaxUploadMB <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max upload size must be positive")
	}
	return &service{
		gcs:        gcs,
		bucket:     gcsCfg.BucketName,
		maxBytes:   int64(mediaCfg.MaxUploadMB) * 1024 * 1024,
		pathPrefix: strings.Trim(mediaCfg.PathPrefix, "/"),
	}, nil
}

// UploadInput is one raw image payload.
type UploadInput struct {
	FileName    string
	ContentType string
	Payload     []byte
}

// UploadOutput identifies the stored object.
type UploadOutput struct {
	ObjectKey string `json:"object_key"`
	PublicURL string `json:"public_url"`
}

// UploadImage validates the payload and writes it to the bucket under a
// collision-free key.
func (s *service) UploadImage(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if len(input.Payload) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file payload is required")
	}
	if int64(len(input.Payload)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds %d byte limit", s.maxBytes))
	}

	contentType, err := normalizeMimeType(input.ContentType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid content type")
	}
	if !isAllowedImage(contentType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content type must be an image (png, jpeg, webp, or gif)")
	}

	objectKey := s.buildObjectKey(uuid.New(), input.FileName)
	publicURL, err := s.gcs.UploadObject(ctx, s.bucket, objectKey, contentType, input.Payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}

	return &UploadOutput{
		ObjectKey: objectKey,
		PublicURL: publicURL,
	}, nil
}

// DeleteImage removes a previously uploaded object. Deleting a missing object
// is a no-op.
func (s *service) DeleteImage(ctx context.Context, objectKey string) error {
	key := strings.TrimSpace(objectKey)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object key is required")
	}
	if err := s.gcs.DeleteObject(ctx, s.bucket, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	return nil
}

func (s *service) buildObjectKey(id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	if s.pathPrefix == "" {
		return fmt.Sprintf("%s/%s", id.String(), cleanName)
	}
	return fmt.Sprintf("%s/%s/%s", s.pathPrefix, id.String(), cleanName)
}

func isAllowedImage(contentType string) bool {
	for _, candidate := range allowedImageMimeTypes {
		if candidate == contentType {
			return true
		}
	}
	return false
}

func normalizeMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", fmt.Errorf("mime type required")
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", err
	}
	return strings.ToLower(mediaType), nil
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
