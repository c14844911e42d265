package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-service/internal/application/ports"
	"users-service/internal/domain/fault"
	domain "users-service/internal/domain/user"
	"users-service/internal/infrastructure/jwt"
	"users-service/internal/interface/api/rest/dto/user"
	"users-service/internal/interface/api/rest/middleware"
	"users-service/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	r.POST(RouteUsers, uc.CreateUserHandler)
	r.GET(RouteUsers, uc.GetUsersHandler)
	r.GET(RouteUsersSorted, uc.GetUsersSortedHandler)
	r.GET(RouteUsersOnline, uc.GetOnlineUsersHandler)
	r.GET(RouteUsersByRole, uc.GetUsersByRoleHandler)
	r.PUT(RouteUser, middleware.AuthMiddleware(jwtService), uc.UpdateUserHandler)
	r.PUT(RouteUserPresence, middleware.AuthMiddleware(jwtService), uc.SetPresenceHandler)
	r.DELETE(RouteUser, middleware.AuthMiddleware(jwtService), uc.DeleteUserHandler)

	return uc
}

// respondFault forwards a service fault untouched; anything else is an
// opaque 500. Only unexpected failures are logged.
func (uc *UserController) respondFault(c *gin.Context, op string, err error) {
	if f, ok := fault.As(err); ok {
		if f.StatusCode >= http.StatusInternalServerError {
			uc.logger.Error(op+" error", zap.Error(err))
		}
		c.JSON(f.StatusCode, f)
		return
	}

	uc.logger.Error(op+" error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// actorAllowed is the boundary authorization the lifecycle service
// deliberately does not perform: the caller must be the target user or
// carry an elevated role.
func actorAllowed(c *gin.Context, target domain.ID) bool {
	switch c.GetString(middleware.CtxUserRole) {
	case string(domain.RoleAdmin), string(domain.RoleSudo):
		return true
	}
	return c.GetInt64(middleware.CtxUserID) == int64(target)
}

func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var req user.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateCreateUser(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	draft := user.ToDomainDraft(req)
	draft.Username = validator.NormalizeUsername(draft.Username)

	if err := uc.userService.CreateUser(c.Request.Context(), draft); err != nil {
		uc.respondFault(c, "CreateUser()", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"access": true})
}

func (uc *UserController) GetUsersHandler(c *gin.Context) {
	skip, limit, order, ok := uc.listParams(c)
	if !ok {
		return
	}

	users, total, err := uc.userService.FindPage(c.Request.Context(), skip, limit, order)
	if err != nil {
		uc.respondFault(c, "FindPage()", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{
		Data:  user.ToResponseUsers(users),
		Total: total,
	})
}

func (uc *UserController) GetUsersSortedHandler(c *gin.Context) {
	skip, limit, order, ok := uc.listParams(c)
	if !ok {
		return
	}

	users, err := uc.userService.FindSortedByDate(
		c.Request.Context(),
		skip, limit, order,
		domain.DateField(c.Query("date")),
	)
	if err != nil {
		uc.respondFault(c, "FindSortedByDate()", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{Data: user.ToResponseUsers(users)})
}

func (uc *UserController) GetOnlineUsersHandler(c *gin.Context) {
	users, err := uc.userService.FindOnline(c.Request.Context())
	if err != nil {
		uc.respondFault(c, "FindOnline()", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{Data: user.ToResponseUsers(users)})
}

func (uc *UserController) GetUsersByRoleHandler(c *gin.Context) {
	users, err := uc.userService.FindByRole(c.Request.Context(), domain.Role(c.Param("role")))
	if err != nil {
		uc.respondFault(c, "FindByRole()", err)
		return
	}

	c.JSON(http.StatusOK, user.ResponseData{Data: user.ToResponseUsers(users)})
}

func (uc *UserController) UpdateUserHandler(c *gin.Context) {
	id, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !actorAllowed(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden resource"})
		return
	}

	var req user.UpdateRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateUpdateUser(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	updated, err := uc.userService.UpdateUser(c.Request.Context(), id, user.ToDomainPatch(req))
	if err != nil {
		uc.respondFault(c, "UpdateUser()", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (uc *UserController) SetPresenceHandler(c *gin.Context) {
	id, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !actorAllowed(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden resource"})
		return
	}

	var req struct {
		Online *bool `json:"online"`
	}
	if err = c.ShouldBindJSON(&req); err != nil || req.Online == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "online must be true | false"})
		return
	}

	u, err := uc.userService.SetOnline(c.Request.Context(), &domain.User{ID: id, Online: !*req.Online}, *req.Online)
	if err != nil {
		uc.respondFault(c, "SetOnline()", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	id, err := validator.ParseUserID(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !actorAllowed(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden resource"})
		return
	}

	if err = uc.userService.DeleteUser(c.Request.Context(), id); err != nil {
		uc.respondFault(c, "DeleteUser()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (uc *UserController) listParams(c *gin.Context) (int, int, domain.Order, bool) {
	skip, err := validator.ParseSkip(c.Query("skip"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, "", false
	}
	limit, err := validator.ParseLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, "", false
	}
	order, err := validator.ParseOrder(c.Query("order"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, "", false
	}

	return skip, limit, order, true
}
