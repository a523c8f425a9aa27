package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/aaq-platform/aaq-admin/app/logic/v1"
	"github.com/aaq-platform/aaq-admin/app/response"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

func (s *HttpSrv) GetCurrentWorkspace(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewWorkspaceLogic(c, s.Core).GetWorkspace(claims.Workspace)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) ListMyWorkspaces(c *gin.Context) {
	data, err := v1.NewWorkspaceLogic(c, s.Core).ListMyWorkspaces()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type ListWorkspacesRequest struct {
	Page     uint64 `form:"page,default=1"`
	PageSize uint64 `form:"pagesize,default=20"`
}

func (s *HttpSrv) ListWorkspaces(c *gin.Context) {
	var req ListWorkspacesRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	data, err := v1.NewWorkspaceLogic(c, s.Core).ListWorkspaces(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type CreateWorkspaceRequest struct {
	Name          string `json:"workspace_name" binding:"required"`
	ContentQuota  int64  `json:"content_quota"`
	APIDailyQuota int64  `json:"api_daily_quota"`
}

func (s *HttpSrv) CreateWorkspace(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	data, err := v1.NewWorkspaceLogic(c, s.Core).CreateWorkspace(v1.CreateWorkspaceArgs{
		Name:          req.Name,
		ContentQuota:  req.ContentQuota,
		APIDailyQuota: req.APIDailyQuota,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type UpdateWorkspaceRequest struct {
	Name          string `json:"workspace_name"`
	ContentQuota  *int64 `json:"content_quota"`
	APIDailyQuota *int64 `json:"api_daily_quota"`
}

func (s *HttpSrv) UpdateWorkspace(c *gin.Context) {
	var req UpdateWorkspaceRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	err := v1.NewWorkspaceLogic(c, s.Core).UpdateWorkspace(c.Param("workspaceid"), types.UpdateWorkspaceArgs{
		Name:          req.Name,
		ContentQuota:  req.ContentQuota,
		APIDailyQuota: req.APIDailyQuota,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type SwitchWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required"`
}

func (s *HttpSrv) SwitchWorkspace(c *gin.Context) {
	var req SwitchWorkspaceRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	data, err := v1.NewWorkspaceLogic(c, s.Core).SwitchWorkspace(req.WorkspaceID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type AddWorkspaceMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"user_role" binding:"required"`
}

func (s *HttpSrv) AddWorkspaceMember(c *gin.Context) {
	var req AddWorkspaceMemberRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewWorkspaceLogic(c, s.Core).AddMember(c.Param("workspaceid"), req.UserID, req.Role); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) RemoveWorkspaceMember(c *gin.Context) {
	if err := v1.NewWorkspaceLogic(c, s.Core).RemoveMember(c.Param("workspaceid"), c.Param("userid")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
