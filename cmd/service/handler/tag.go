package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/aaq-platform/aaq-admin/app/logic/v1"
	"github.com/aaq-platform/aaq-admin/app/response"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

type CreateTagRequest struct {
	Name string `json:"tag_name" binding:"required"`
}

func (s *HttpSrv) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewTagLogic(c, s.Core).CreateTag(claims.Workspace, req.Name)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) DeleteTag(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	if err := v1.NewTagLogic(c, s.Core).DeleteTag(claims.Workspace, c.Param("tagid")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type ListTagRequest struct {
	Page     uint64 `form:"page,default=1"`
	PageSize uint64 `form:"pagesize,default=50"`
}

func (s *HttpSrv) ListTags(c *gin.Context) {
	var req ListTagRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewTagLogic(c, s.Core).ListTags(types.ListTagOptions{
		WorkspaceID: claims.Workspace,
	}, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}
