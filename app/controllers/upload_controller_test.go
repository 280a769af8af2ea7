package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/storage"
	"github.com/editorfox/EditorFox/internal/pkg/usercontext"
)

type memBackend struct {
	files map[string][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{files: map[string][]byte{}}
}

func (m *memBackend) Save(p string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.files[p] = data
	return p, nil
}

func (m *memBackend) Open(p string) (io.ReadCloser, error) {
	data, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("not found: %s", p)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBackend) Delete(p string) error {
	delete(m.files, p)
	return nil
}

func (m *memBackend) ListDir(dir string) ([]string, []string, error) {
	seen := map[string]bool{}
	var dirs, files []string
	prefix := dir + "/"
	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			if !seen[rest[:i]] {
				seen[rest[:i]] = true
				dirs = append(dirs, rest[:i])
			}
		} else {
			files = append(files, rest)
		}
	}
	return dirs, files, nil
}

func (m *memBackend) URL(p string) string {
	return "/uploads/" + p
}

func (m *memBackend) GetAvailableName(p string) string {
	candidate := p
	for i := 1; ; i++ {
		if _, exists := m.files[candidate]; !exists {
			return candidate
		}
		ext := path.Ext(p)
		candidate = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(p, ext), i, ext)
	}
}

// newTestApp wires the handlers behind a middleware that injects the given
// user, standing in for the host application's auth layer.
func newTestApp(t *testing.T, backend *memBackend, user usercontext.UserContext) *fiber.App {
	t.Helper()

	config.Override(&config.Settings{
		UploadPath:         "uploads",
		RestrictByUser:     "id",
		SlugifyFilename:    true,
		AllowNonImageFiles: true,
		ThumbnailWidth:     75,
		ThumbnailHeight:    75,
		ImageMaxWidth:      1024,
		ImageQuality:       75,
		ForceCompression:   true,
		OutputFormat:       config.FormatJPEG,
		StorageBackend:     "local",
		FileIconsPath:      "/static/editorfox",
	})
	t.Cleanup(func() {
		config.Override(nil)
		storage.SetBackend(nil)
	})
	storage.SetBackend(backend)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, user)
		return c.Next()
	})
	app.Post("/editor/upload", HandleUpload)
	app.Delete("/editor/delete", HandleDelete)
	return app
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("upload", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func loggedInUser() usercontext.UserContext {
	return usercontext.UserContext{UserID: 7, Username: "alice", IsLoggedIn: true}
}

func TestHandleUploadReturnsJSON(t *testing.T) {
	backend := newMemBackend()
	app := newTestApp(t, backend, loggedInUser())

	body, contentType := multipartUpload(t, "My Photo.PNG", testPNG(t))
	req := httptest.NewRequest(http.MethodPost, "/editor/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		URL      string `json:"url"`
		Uploaded string `json:"uploaded"`
		FileName string `json:"fileName"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	assert.Equal(t, "1", payload.Uploaded)
	assert.Regexp(t, `^/uploads/uploads/7/my-photo_[0-9a-f]{6}\.jpg$`, payload.URL)
	assert.Regexp(t, `^my-photo_[0-9a-f]{6}\.jpg$`, payload.FileName)
}

func TestHandleUploadReturnsEditorCallback(t *testing.T) {
	backend := newMemBackend()
	app := newTestApp(t, backend, loggedInUser())

	body, contentType := multipartUpload(t, "pic.png", testPNG(t))
	req := httptest.NewRequest(http.MethodPost, "/editor/upload?CKEditorFuncNum=3", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(raw), "CKEDITOR.tools.callFunction(3, '/uploads/uploads/7/pic_")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestHandleUploadRejectsNonImagesWhenDisallowed(t *testing.T) {
	backend := newMemBackend()
	app := newTestApp(t, backend, loggedInUser())
	config.Get().AllowNonImageFiles = false

	body, contentType := multipartUpload(t, "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/editor/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.Empty(t, backend.files)
}

func TestHandleUploadBlocksScriptableContent(t *testing.T) {
	backend := newMemBackend()
	app := newTestApp(t, backend, loggedInUser())

	body, contentType := multipartUpload(t, "pic.png", []byte("<!DOCTYPE html><html><body>x</body></html>"))
	req := httptest.NewRequest(http.MethodPost, "/editor/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.Empty(t, backend.files)
}

func TestHandleUploadRequiresLogin(t *testing.T) {
	backend := newMemBackend()
	app := newTestApp(t, backend, usercontext.UserContext{})

	body, contentType := multipartUpload(t, "pic.png", testPNG(t))
	req := httptest.NewRequest(http.MethodPost, "/editor/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleUploadWithoutFile(t *testing.T) {
	backend := newMemBackend()
	app := newTestApp(t, backend, loggedInUser())

	req := httptest.NewRequest(http.MethodPost, "/editor/upload", nil)
	req.Header.Set("Accept", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleDelete(t *testing.T) {
	backend := newMemBackend()
	backend.files["uploads/7/pic.png"] = []byte("content")
	backend.files["uploads/7/pic_thumb.jpg"] = []byte("thumb")
	app := newTestApp(t, backend, loggedInUser())

	req := httptest.NewRequest(http.MethodDelete, "/editor/delete?path=uploads%2F7%2Fpic.png", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, backend.files)
}

func TestHandleDeleteRefusesForeignScope(t *testing.T) {
	backend := newMemBackend()
	backend.files["uploads/8/pic.png"] = []byte("content")
	app := newTestApp(t, backend, loggedInUser())

	req := httptest.NewRequest(http.MethodDelete, "/editor/delete?path=uploads%2F8%2Fpic.png", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, backend.files, 1)
}

func TestHandleDeleteRequiresLogin(t *testing.T) {
	backend := newMemBackend()
	app := newTestApp(t, backend, usercontext.UserContext{})

	req := httptest.NewRequest(http.MethodDelete, "/editor/delete?path=uploads%2F7%2Fpic.png", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
