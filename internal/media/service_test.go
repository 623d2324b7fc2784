package media

import (
	"context"
	"strings"
	"testing"

	"github.com/shadowgallery/shadowgallery-backend/pkg/config"
	pkgerrors "github.com/shadowgallery/shadowgallery-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUploader struct {
	uploaded map[string][]byte
	deleted  []string
}

func newStubUploader() *stubUploader {
	return &stubUploader{uploaded: map[string][]byte{}}
}

func (u *stubUploader) UploadObject(ctx context.Context, bucket, object, contentType string, payload []byte) (string, error) {
	u.uploaded[object] = payload
	return "https://storage.googleapis.com/" + bucket + "/" + object, nil
}

func (u *stubUploader) DeleteObject(ctx context.Context, bucket, object string) error {
	u.deleted = append(u.deleted, object)
	return nil
}

func newMediaService(t *testing.T, uploader *stubUploader) Service {
	t.Helper()

	svc, err := NewService(uploader,
		config.GCSConfig{BucketName: "shadow-media"},
		config.MediaConfig{MaxUploadMB: 1, PathPrefix: "images"},
	)
	require.NoError(t, err)
	return svc
}

func TestUploadImage(t *testing.T) {
	t.Parallel()

	uploader := newStubUploader()
	svc := newMediaService(t, uploader)

	out, err := svc.UploadImage(context.Background(), UploadInput{
		FileName:    "Moonlit Print.PNG",
		ContentType: "image/png",
		Payload:     []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.ObjectKey, "images/"))
	assert.True(t, strings.HasSuffix(out.ObjectKey, "/moonlit-print.png"))
	assert.Contains(t, out.PublicURL, "shadow-media")
	assert.Len(t, uploader.uploaded, 1)
}

func TestUploadImageRejectsNonImages(t *testing.T) {
	t.Parallel()

	svc := newMediaService(t, newStubUploader())

	_, err := svc.UploadImage(context.Background(), UploadInput{
		FileName:    "manifest.pdf",
		ContentType: "application/pdf",
		Payload:     []byte("%PDF-1.4"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUploadImageRejectsOversizedPayload(t *testing.T) {
	t.Parallel()

	svc := newMediaService(t, newStubUploader())

	_, err := svc.UploadImage(context.Background(), UploadInput{
		FileName:    "huge.png",
		ContentType: "image/png",
		Payload:     make([]byte, 2*1024*1024),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUploadImageRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	svc := newMediaService(t, newStubUploader())

	_, err := svc.UploadImage(context.Background(), UploadInput{
		FileName:    "empty.png",
		ContentType: "image/png",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDeleteImage(t *testing.T) {
	t.Parallel()

	uploader := newStubUploader()
	svc := newMediaService(t, uploader)

	require.NoError(t, svc.DeleteImage(context.Background(), "images/abc/moonlit.png"))
	assert.Equal(t, []string{"images/abc/moonlit.png"}, uploader.deleted)

	err := svc.DeleteImage(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
