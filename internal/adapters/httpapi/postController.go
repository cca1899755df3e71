package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snapfeed/internal/adapters/httpapi/middleware"
	postPort "snapfeed/internal/ports/post"
)

type PostController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, logger: logger}
}

// Create accepts multipart form data: optional "content" plus any
// number of "files" parts.
func (ctl *PostController) Create(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	content := c.PostForm("content")

	uploads := make([]postPort.Upload, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		uploads = append(uploads, postPort.Upload{Filename: fh.Filename, Data: data})
	}

	p, err := ctl.pc.Create(c.Request.Context(), current, content, uploads)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (ctl *PostController) List(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	var authorID *uint64
	if v := c.Query("author_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		authorID = &id
	}

	res, err := ctl.pc.List(c.Request.Context(), current, authorID)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Like sets the caller's like on the post to the requested state.
func (ctl *PostController) Like(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req struct {
		Like *bool `json:"like" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	if err := ctl.pc.ToggleLike(c.Request.Context(), current, postID, *req.Like); err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusOK)
}
