package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/aaq-platform/aaq-admin/app/logic/v1"
	"github.com/aaq-platform/aaq-admin/app/response"
	"github.com/aaq-platform/aaq-admin/pkg/errors"
	"github.com/aaq-platform/aaq-admin/pkg/i18n"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

// 64MB cap on a single upload batch
const maxUploadBytes = 64 << 20

func (s *HttpSrv) UploadDocs(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.APIError(c, errors.New("handler.UploadDocs.FormFile", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		response.APIError(c, errors.New("handler.UploadDocs.size", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusRequestEntityTooLarge))
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		response.APIError(c, errors.New("handler.UploadDocs.ReadAll", i18n.ERROR_INTERNAL, err))
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewDocmuncherLogic(c, s.Core).Upload(claims.Workspace, header.Filename, content)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

type ListJobsRequest struct {
	Status   string `form:"status"`
	Page     uint64 `form:"page,default=1"`
	PageSize uint64 `form:"pagesize,default=20"`
}

func (s *HttpSrv) ListIndexJobs(c *gin.Context) {
	var req ListJobsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	claims, _ := v1.InjectTokenClaim(c)
	opts := types.ListIndexJobOptions{
		WorkspaceID: claims.Workspace,
	}
	if req.Status != "" {
		status := types.JobStatus(req.Status)
		opts.Status = &status
	}

	data, err := v1.NewDocmuncherLogic(c, s.Core).ListJobs(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) GetIndexJobStatus(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	data, err := v1.NewDocmuncherLogic(c, s.Core).GetJobStatus(claims.Workspace, c.Param("jobid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}

func (s *HttpSrv) IsJobRunning(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	running, err := v1.NewDocmuncherLogic(c, s.Core).IsJobRunning(claims.Workspace)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, gin.H{"job_running": running})
}

type ReportTaskResultRequest struct {
	TaskID     string `json:"task_id" binding:"required"`
	Status     string `json:"task_status" binding:"required"`
	ErrorTrace string `json:"error_trace"`
}

// ReportTaskResult is the callback muncher workers post per-document results
// to. It sits behind the same auth as the console routes; workers hold a
// service account token.
func (s *HttpSrv) ReportTaskResult(c *gin.Context) {
	var req ReportTaskResultRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	status := types.TaskStatus(req.Status)
	switch status {
	case types.TASK_STATUS_QUEUED, types.TASK_STATUS_IN_PROGRESS, types.TASK_STATUS_SUCCESS, types.TASK_STATUS_FAILED:
	default:
		response.APIError(c, errors.New("handler.ReportTaskResult.status", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusUnprocessableEntity))
		return
	}

	data, err := v1.NewDocmuncherLogic(c, s.Core).ReportTaskResult(req.TaskID, status, req.ErrorTrace)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, data)
}
