package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/aaq-platform/aaq-admin/app/logic/v1"
	"github.com/aaq-platform/aaq-admin/app/response"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *HttpSrv) Login(c *gin.Context) {
	var req LoginRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	data, err := v1.NewAuthLogic(c, s.Core).Login(req.Username, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

// RegisterFirstUser bootstraps an empty instance. Once any account exists
// the endpoint answers 403.
func (s *HttpSrv) RegisterFirstUser(c *gin.Context) {
	var req LoginRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	data, err := v1.NewAuthLogic(c, s.Core).Register(req.Username, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) RequireRegister(c *gin.Context) {
	required, err := v1.NewAuthLogic(c, s.Core).RegistrationRequired()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, gin.H{"require_register": required})
}

type CreateUserRequest struct {
	Username      string              `json:"username" binding:"required"`
	Password      string              `json:"password" binding:"required"`
	IsAdmin       bool                `json:"is_admin"`
	ContentQuota  int64               `json:"content_quota"`
	APIDailyQuota int64               `json:"api_daily_quota"`
	Workspaces    []v1.WorkspaceGrant `json:"user_workspaces"`
}

func (s *HttpSrv) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	data, err := v1.NewUserLogic(c, s.Core).CreateUser(v1.CreateUserArgs{
		Username:      req.Username,
		Password:      req.Password,
		IsAdmin:       req.IsAdmin,
		ContentQuota:  req.ContentQuota,
		APIDailyQuota: req.APIDailyQuota,
		Workspaces:    req.Workspaces,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) GetCurrentUser(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewUserLogic(c, s.Core).GetUser(claims.User)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) GetUser(c *gin.Context) {
	data, err := v1.NewUserLogic(c, s.Core).GetUser(c.Param("userid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type UpdateUserRequest struct {
	Username      string `json:"username"`
	IsAdmin       *bool  `json:"is_admin"`
	ContentQuota  *int64 `json:"content_quota"`
	APIDailyQuota *int64 `json:"api_daily_quota"`
}

func (s *HttpSrv) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	err := v1.NewUserLogic(c, s.Core).UpdateUser(c.Param("userid"), types.UpdateUserArgs{
		Username:      req.Username,
		IsAdmin:       req.IsAdmin,
		ContentQuota:  req.ContentQuota,
		APIDailyQuota: req.APIDailyQuota,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) ResetUserPassword(c *gin.Context) {
	password, err := v1.NewUserLogic(c, s.Core).ResetPassword(c.Param("userid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, gin.H{"new_password": password})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (s *HttpSrv) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewUserLogic(c, s.Core).ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type ListUsersRequest struct {
	WorkspaceID string `form:"workspace_id"`
	Keywords    string `form:"keywords"`
	Page        uint64 `form:"page,default=1"`
	PageSize    uint64 `form:"pagesize,default=20"`
}

func (s *HttpSrv) ListUsers(c *gin.Context) {
	var req ListUsersRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	data, err := v1.NewUserLogic(c, s.Core).ListUsers(types.ListUserOptions{
		WorkspaceID: req.WorkspaceID,
		Keywords:    req.Keywords,
	}, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

// UserExists answers HEAD probes used by the create-user form to flag
// duplicate usernames before submit.
func (s *HttpSrv) UserExists(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	exist, err := s.Core.Store().UserStore().Exist(c, username)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if exist {
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusNotFound)
}
