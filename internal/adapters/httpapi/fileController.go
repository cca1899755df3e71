package httpapi

import (
	"mime"
	"net/http"
	"path/filepath"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	storagePort "snapfeed/internal/ports/storage"
)

// media filenames are always `<uuid>.<extension>`; anything else never
// reaches the store.
var mediaNameRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.[0-9a-z]+$`)

type FileController struct {
	store  storagePort.FileStore
	logger *zap.Logger
}

func NewFileController(store storagePort.FileStore, logger *zap.Logger) *FileController {
	return &FileController{store: store, logger: logger}
}

func (ctl *FileController) Get(c *gin.Context) {
	name := c.Param("filename")
	if !mediaNameRe.MatchString(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	data, err := ctl.store.Read(name)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}
