package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snapfeed/internal/adapters/httpapi/middleware"
)

type CommentController struct {
	cc     CommentUseCase
	logger *zap.Logger
}

func NewCommentController(cc CommentUseCase, logger *zap.Logger) *CommentController {
	return &CommentController{cc: cc, logger: logger}
}

func (ctl *CommentController) Create(c *gin.Context) {
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
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	res, err := ctl.cc.Create(c.Request.Context(), current, postID, req.Content)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *CommentController) List(c *gin.Context) {
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

	res, err := ctl.cc.List(c.Request.Context(), current, postID)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": res})
}

func (ctl *CommentController) Delete(c *gin.Context) {
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
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if err := ctl.cc.Delete(c.Request.Context(), current, postID, commentID); err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
