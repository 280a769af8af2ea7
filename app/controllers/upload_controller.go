package controllers

import (
	"errors"
	"io"
	"path"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/editorfox/EditorFox/internal/pkg/config"
	"github.com/editorfox/EditorFox/internal/pkg/metrics/counter"
	"github.com/editorfox/EditorFox/internal/pkg/storage"
	"github.com/editorfox/EditorFox/internal/pkg/upload"
	"github.com/editorfox/EditorFox/internal/pkg/usercontext"
)

type uploadWorkflow struct {
	c       *fiber.Ctx
	userCtx usercontext.UserContext
	cfg     *config.Settings
	backend storage.Backend
}

var errUploadResponseHandled = errors.New("upload response already handled")

// HandleUpload accepts one file from the editor and returns its URL.
func HandleUpload(c *fiber.Ctx) error {
	return newUploadWorkflow(c).run()
}

func newUploadWorkflow(c *fiber.Ctx) *uploadWorkflow {
	return &uploadWorkflow{
		c:       c,
		userCtx: usercontext.GetUserContext(c),
		cfg:     config.Get(),
		backend: storage.GetBackend(),
	}
}

func (w *uploadWorkflow) run() error {
	if !w.userCtx.IsLoggedIn {
		return w.c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	funcNum := w.c.Query("CKEditorFuncNum")

	originalName, data, err := w.readUpload()
	if err != nil {
		if errors.Is(err, errUploadResponseHandled) {
			return nil
		}
		return err
	}

	// Never store content a browser could execute from the uploads tree.
	if _, err := upload.ValidateUploadBySniff(originalName, head(data)); err != nil {
		if funcNum != "" {
			return w.c.Type("html").SendString(editorCallbackFragment(funcNum, "", err.Error()))
		}
		return respondUploadError(w.c, fiber.StatusUnsupportedMediaType, err.Error())
	}

	file := upload.NewFile(data, w.cfg, w.backend)

	// Reject non-images when the policy disallows them. The editor shows
	// the message from the callback fragment.
	if !file.IsImage() && !w.cfg.AllowNonImageFiles {
		if funcNum != "" {
			return w.c.Type("html").SendString(editorCallbackFragment(funcNum, "", "Invalid file type."))
		}
		return respondUploadError(w.c, fiber.StatusUnsupportedMediaType, "Invalid file type.")
	}

	resolvedPath := upload.ResolveFilename(originalName, w.userCtx, w.c, w.cfg, w.backend)

	savedPath, err := file.SaveAs(resolvedPath)
	if err != nil {
		fiberlog.Errorf("[Upload] Failed to store %s: %v", originalName, err)
		return respondUploadError(w.c, fiber.StatusInternalServerError, "Could not store the uploaded file.")
	}

	scope := w.userCtx.ScopeSegment(w.cfg.RestrictByUser)
	if err := counter.AddUpload(scope); err != nil {
		fiberlog.Debugf("[Upload] Counter not updated: %v", err)
	}

	url := w.backend.URL(savedPath)

	if funcNum != "" {
		// Respond with Javascript sending the editor the upload URL.
		return w.c.Type("html").SendString(editorCallbackFragment(funcNum, url, ""))
	}

	return w.c.JSON(fiber.Map{
		"url":      url,
		"uploaded": "1",
		"fileName": path.Base(savedPath),
	})
}

// readUpload pulls the single uploaded file out of the multipart form.
func (w *uploadWorkflow) readUpload() (string, []byte, error) {
	fileHeader, err := w.c.FormFile("upload")
	if err != nil {
		fiberlog.Errorf("[Upload] No file in request: %v", err)
		return "", nil, markHandledResponse(respondUploadError(w.c, fiber.StatusBadRequest, "No file uploaded."))
	}

	src, err := fileHeader.Open()
	if err != nil {
		fiberlog.Errorf("[Upload] Error opening uploaded file: %v", err)
		return "", nil, markHandledResponse(respondUploadError(w.c, fiber.StatusInternalServerError, "Could not read the uploaded file."))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		fiberlog.Errorf("[Upload] Error reading uploaded file: %v", err)
		return "", nil, markHandledResponse(respondUploadError(w.c, fiber.StatusInternalServerError, "Could not read the uploaded file."))
	}

	return fileHeader.Filename, data, nil
}

// head returns at most the first 512 bytes, the window DetectContentType reads.
func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}

func markHandledResponse(err error) error {
	if err != nil {
		return err
	}
	return errUploadResponseHandled
}
