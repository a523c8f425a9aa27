package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aaq-platform/aaq-admin/app/core"
	v1 "github.com/aaq-platform/aaq-admin/app/logic/v1"
	"github.com/aaq-platform/aaq-admin/app/response"
	"github.com/aaq-platform/aaq-admin/cmd/service/handler"
	"github.com/aaq-platform/aaq-admin/cmd/service/middleware"
	"github.com/aaq-platform/aaq-admin/pkg/metrics"
	"github.com/aaq-platform/aaq-admin/pkg/types"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func GetUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User
		}, opts...)
	}
}

func apiTimer(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := appCore.Metrics().ApiResponseTimer(c.FullPath())
		c.Next()
		timer.ObserveDuration()
		if c.Writer.Status() >= http.StatusBadRequest {
			appCore.Metrics().ApiErrorInc(c.Request.Method, c.FullPath(), c.Writer.Status())
		}
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	s.Engine.Use(middleware.I18n(), middleware.AcceptLanguage(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(apiTimer(s.Core))
	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.POST("/login", ipLimit("login"), s.Login)
		apiV1.POST("/user/register", ipLimit("register"), s.RegisterFirstUser)
		apiV1.GET("/user/require-register", s.RequireRegister)
		apiV1.HEAD("/user/exists", s.UserExists)

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core), middleware.ApiDailyQuota(s.Core))

		content := authed.Group("/content")
		{
			content.GET("/list", s.ListContents)
			content.GET("/unvalidated/count", s.UnvalidatedCount)
			content.GET("/unvalidated/next", s.NextUnvalidated)
			content.GET("/:contentid", s.GetContent)
			content.GET("/:contentid/summary", s.ContentAISummary)
			content.POST("/:contentid/vote", s.VoteContent)

			edit := content.Group("")
			{
				edit.Use(middleware.VerifyWorkspaceRole(types.WORKSPACE_ROLE_ADMIN))
				edit.POST("", userLimit("content_modify"), s.CreateContent)
				edit.PUT("/:contentid", userLimit("content_modify"), s.UpdateContent)
				edit.DELETE("/:contentid", s.DeleteContent)
				edit.PATCH("/:contentid/archive", s.SetContentArchived)
				edit.PATCH("/:contentid/validate", s.SetContentValidated)
				edit.POST("/bulk", userLimit("bulk_import"), s.BulkImportContents)
			}
		}

		tag := authed.Group("/tag")
		{
			tag.GET("/list", s.ListTags)

			tag.Use(middleware.VerifyWorkspaceRole(types.WORKSPACE_ROLE_ADMIN))
			tag.POST("", s.CreateTag)
			tag.DELETE("/:tagid", s.DeleteTag)
		}

		docmuncher := authed.Group("/docmuncher")
		{
			docmuncher.GET("/status/data", s.ListIndexJobs)
			docmuncher.GET("/status/is_job_running", s.IsJobRunning)
			docmuncher.GET("/status/:jobid", s.GetIndexJobStatus)
			docmuncher.POST("/upload", middleware.VerifyWorkspaceRole(types.WORKSPACE_ROLE_ADMIN), userLimit("doc_upload"), s.UploadDocs)
			docmuncher.POST("/task/result", s.ReportTaskResult)
		}

		user := authed.Group("/user")
		{
			user.GET("/current", s.GetCurrentUser)
			user.PUT("/password", userLimit("password"), s.ChangePassword)
			user.GET("/list", s.ListUsers)
			user.POST("", s.CreateUser)
			user.GET("/:userid", s.GetUser)
			user.PUT("/:userid", s.UpdateUser)
			user.POST("/:userid/password/reset", s.ResetUserPassword)
		}

		workspace := authed.Group("/workspace")
		{
			workspace.GET("/current", s.GetCurrentWorkspace)
			workspace.GET("/list", s.ListMyWorkspaces)
			workspace.GET("/all", s.ListWorkspaces)
			workspace.POST("", s.CreateWorkspace)
			workspace.PUT("/:workspaceid", s.UpdateWorkspace)
			workspace.POST("/switch", s.SwitchWorkspace)
			workspace.POST("/:workspaceid/member", s.AddWorkspaceMember)
			workspace.DELETE("/:workspaceid/member/:userid", s.RemoveWorkspaceMember)
		}

		dashboard := authed.Group("/dashboard")
		{
			dashboard.GET("/overview", s.DashboardOverview)
			dashboard.GET("/insights", s.DashboardInsights)
			dashboard.GET("/performance", s.DashboardPerformance)
			dashboard.GET("/topic_visualization", s.DashboardTopicVisualization)
			dashboard.GET("/drilldown", s.DashboardDrillDown)
		}
	}
}
