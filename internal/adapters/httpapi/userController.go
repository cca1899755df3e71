package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snapfeed/internal/adapters/httpapi/middleware"
	userPort "snapfeed/internal/ports/user"
)

type UserController struct {
	uc     UserUseCase
	logger *zap.Logger
}

func NewUserController(uc UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{uc: uc, logger: logger}
}

func (ctl *UserController) SignUp(c *gin.Context) {
	var req struct {
		Username       string `json:"username" binding:"required"`
		Fullname       string `json:"fullname" binding:"required"`
		Password       string `json:"password" binding:"required"`
		PasswordRepeat string `json:"password_repeat" binding:"required"`
		Birthday       string `json:"birthday"`
		Bio            string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	in := userPort.SignUpInput{
		Username:       req.Username,
		Fullname:       req.Fullname,
		Password:       req.Password,
		PasswordRepeat: req.PasswordRepeat,
		Bio:            req.Bio,
	}
	if req.Birthday != "" {
		bd, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthday"})
			return
		}
		in.Birthday = &bd
	}

	u, err := ctl.uc.SignUp(c.Request.Context(), in)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Login accepts the form-encoded username/password pair and returns a
// bearer token.
func (ctl *UserController) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	res, err := ctl.uc.Login(c.Request.Context(), username, password)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) Me(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	u, err := ctl.uc.Profile(c.Request.Context(), current)
	if err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) Subscribe(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	authorID, err := strconv.ParseUint(c.Param("author_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}
	if err := ctl.uc.Subscribe(c.Request.Context(), current, authorID); err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusOK)
}

func (ctl *UserController) Unsubscribe(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	authorID, err := strconv.ParseUint(c.Param("author_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}
	if err := ctl.uc.Unsubscribe(c.Request.Context(), current, authorID); err != nil {
		fail(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusOK)
}
