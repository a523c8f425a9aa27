package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aaq-platform/aaq-admin/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
