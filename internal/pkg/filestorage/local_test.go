package filestorage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
)

// multipartHeader builds a *multipart.FileHeader the way gin hands it to controllers
func multipartHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "http://localhost:8080/uploads/", 1<<20)
	require.NoError(t, err)

	url, err := storage.SaveImage(multipartHeader(t, "avatar.exe", pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	_, err = os.Stat(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)

	require.NoError(t, storage.DeleteFile(url))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(url)))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveImageRejects(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/uploads", 64)
	require.NoError(t, err)

	_, err = storage.SaveImage(multipartHeader(t, "notes.png", []byte("just some text")))
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	_, err = storage.SaveImage(multipartHeader(t, "big.png", pngBytes(t)))
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed), "png larger than the 64 byte cap")

	_, err = storage.SaveImage(nil)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}
