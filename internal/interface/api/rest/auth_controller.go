package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-service/internal/application/ports"
	"users-service/internal/domain/fault"
	"users-service/internal/infrastructure/jwt"
	"users-service/internal/interface/api/rest/dto/auth"
	"users-service/internal/interface/api/rest/dto/user"
	"users-service/internal/interface/api/rest/middleware"
	"users-service/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger      *zap.Logger
	userService ports.UserService
	authService ports.Auth
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	userService ports.UserService,
	authService ports.Auth,
	jwtService *jwt.Service,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		userService: userService,
		authService: authService,
	}

	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteLogout, middleware.AuthMiddleware(jwtService), ac.LogoutHandler)

	return ac
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateLogin(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	u, err := ac.userService.Authenticate(
		c.Request.Context(),
		validator.NormalizeUsername(req.Username),
		req.Password,
	)
	if err != nil {
		ac.respondFault(c, "Authenticate()", err)
		return
	}

	// every login toggles the presence flag instead of setting it
	u, err = ac.userService.ToggleOnline(c.Request.Context(), u)
	if err != nil {
		ac.respondFault(c, "ToggleOnline()", err)
		return
	}

	token, err := ac.authService.IssueToken(u)
	if err != nil {
		ac.logger.Error("IssueToken() error", zap.Error(err), zap.Int64("user_id", int64(u.ID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"user":         user.ToResponseUser(*u),
	})
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	token := c.GetString(middleware.CtxToken)
	if !ac.authService.Logout(token) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (ac *AuthController) respondFault(c *gin.Context, op string, err error) {
	if f, ok := fault.As(err); ok {
		if f.StatusCode >= http.StatusInternalServerError {
			ac.logger.Error(op+" error", zap.Error(err))
		}
		c.JSON(f.StatusCode, f)
		return
	}

	ac.logger.Error(op+" error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
