package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-agent-go/internal/api/handler"
)

// RegisterRoutes 注册所有API路由
func RegisterRoutes(h *server.Hertz, rh *handler.ResumeHandler) {
	h.GET("/api/v1/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	v1 := h.Group("/api/v1")
	{
		v1.POST("/resume/upload", rh.HandleResumeUpload)
		v1.GET("/candidates", rh.HandleListCandidates)
		v1.GET("/candidate/:id", rh.HandleGetCandidate)
		v1.POST("/candidate/:id/ask", rh.HandleAskCandidate)
	}
}
