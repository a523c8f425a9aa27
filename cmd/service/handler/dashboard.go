package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/aaq-platform/aaq-admin/app/logic/v1"
	"github.com/aaq-platform/aaq-admin/app/response"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

func (s *HttpSrv) DashboardOverview(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewDashboardLogic(c, s.Core).Overview(claims.Workspace)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type DashboardInsightsRequest struct {
	Days int `form:"days,default=14"`
}

func (s *HttpSrv) DashboardInsights(c *gin.Context) {
	var req DashboardInsightsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewDashboardLogic(c, s.Core).Insights(claims.Workspace, req.Days)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type DashboardPerformanceRequest struct {
	TopN int `form:"top_n,default=10"`
}

func (s *HttpSrv) DashboardPerformance(c *gin.Context) {
	var req DashboardPerformanceRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewDashboardLogic(c, s.Core).Performance(claims.Workspace, req.TopN)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) DashboardTopicVisualization(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewDashboardLogic(c, s.Core).TopicVisualization(claims.Workspace)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type DashboardDrillDownRequest struct {
	TagID string `form:"tag_id" binding:"required"`
	Skip  uint64 `form:"skip,default=0"`
	Limit uint64 `form:"limit,default=20"`
}

func (s *HttpSrv) DashboardDrillDown(c *gin.Context) {
	var req DashboardDrillDownRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewDashboardLogic(c, s.Core).DrillDown(claims.Workspace, req.TagID, req.Skip, req.Limit)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) ContentAISummary(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewDashboardLogic(c, s.Core).ContentAISummary(claims.Workspace, c.Param("contentid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}
