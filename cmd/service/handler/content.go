package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/aaq-platform/aaq-admin/app/logic/v1"
	"github.com/aaq-platform/aaq-admin/app/response"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

type CreateContentRequest struct {
	Title      string                `json:"content_title" binding:"required"`
	Text       string                `json:"content_text" binding:"required"`
	Metadata   types.ContentMetadata `json:"content_metadata"`
	RelatedIDs []string              `json:"related_contents_id"`
	Tags       []string              `json:"content_tags"`
}

func (s *HttpSrv) CreateContent(c *gin.Context) {
	var req CreateContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewContentLogic(c, s.Core).CreateContent(claims.Workspace, v1.CreateContentArgs{
		Title:      req.Title,
		Text:       req.Text,
		Metadata:   req.Metadata,
		RelatedIDs: req.RelatedIDs,
		Tags:       req.Tags,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) GetContent(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewContentLogic(c, s.Core).GetContent(claims.Workspace, c.Param("contentid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type UpdateContentRequest struct {
	Title      string                `json:"content_title" binding:"required"`
	Text       string                `json:"content_text" binding:"required"`
	Metadata   types.ContentMetadata `json:"content_metadata"`
	RelatedIDs []string              `json:"related_contents_id"`
	Tags       []string              `json:"content_tags"`
}

func (s *HttpSrv) UpdateContent(c *gin.Context) {
	var req UpdateContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	err := v1.NewContentLogic(c, s.Core).UpdateContent(claims.Workspace, c.Param("contentid"), types.UpdateContentArgs{
		Title:      req.Title,
		Text:       req.Text,
		Metadata:   req.Metadata,
		RelatedIDs: req.RelatedIDs,
		Tags:       req.Tags,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteContent(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	if err := v1.NewContentLogic(c, s.Core).DeleteContent(claims.Workspace, c.Param("contentid")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type SetArchivedRequest struct {
	Archived *bool `json:"is_archived" binding:"required"`
}

func (s *HttpSrv) SetContentArchived(c *gin.Context) {
	var req SetArchivedRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	if err := v1.NewContentLogic(c, s.Core).SetArchived(claims.Workspace, c.Param("contentid"), *req.Archived); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type SetValidatedRequest struct {
	Validated *bool `json:"is_validated" binding:"required"`
}

func (s *HttpSrv) SetContentValidated(c *gin.Context) {
	var req SetValidatedRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	if err := v1.NewContentLogic(c, s.Core).SetValidated(claims.Workspace, c.Param("contentid"), *req.Validated); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type VoteContentRequest struct {
	Positive *bool `json:"positive" binding:"required"`
}

func (s *HttpSrv) VoteContent(c *gin.Context) {
	var req VoteContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	if err := v1.NewContentLogic(c, s.Core).AddVote(claims.Workspace, c.Param("contentid"), *req.Positive); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type ListContentRequest struct {
	Keywords  string `form:"keywords"`
	Archived  *bool  `form:"is_archived"`
	Validated *bool  `form:"is_validated"`
	TagID     string `form:"tag_id"`
	Skip      uint64 `form:"skip"`
	Limit     uint64 `form:"limit,default=20"`
}

func (s *HttpSrv) ListContents(c *gin.Context) {
	var req ListContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewContentLogic(c, s.Core).ListContents(types.ListContentOptions{
		WorkspaceID: claims.Workspace,
		Keywords:    req.Keywords,
		Archived:    req.Archived,
		Validated:   req.Validated,
		TagID:       req.TagID,
	}, req.Skip, req.Limit)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) UnvalidatedCount(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	count, err := v1.NewContentLogic(c, s.Core).UnvalidatedCount(claims.Workspace)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, gin.H{"count": count})
}

func (s *HttpSrv) NextUnvalidated(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewContentLogic(c, s.Core).NextUnvalidated(claims.Workspace)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

// BulkImportContents ingests a CSV file from a multipart form.
func (s *HttpSrv) BulkImportContents(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.APIError(c, err)
		return
	}
	defer file.Close()

	claims, _ := v1.InjectTokenClaim(c)
	result, err := v1.NewContentLogic(c, s.Core).BulkImportCSV(claims.Workspace, file)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}
