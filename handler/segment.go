package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/service"
)

type SegmentHandler struct {
	trace       *service.TraceService
	interactive *service.InteractiveService
}

func NewSegmentHandler(trace *service.TraceService, interactive *service.InteractiveService) *SegmentHandler {
	return &SegmentHandler{
		trace:       trace,
		interactive: interactive,
	}
}

// Mask 掩码矢量化
func (h *SegmentHandler) Mask(c *gin.Context) {
	var req model.MaskRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.trace.Trace(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "处理成功", result)
}

// Interactive 以点击坐标所在瓦片做泛洪分割
func (h *SegmentHandler) Interactive(c *gin.Context) {
	var q coordQuery
	if !bindQuery(c, &q) {
		return
	}

	resp, hit, err := h.interactive.Segment(c.Request.Context(), *q.Lat, *q.Lng, q.Zoom)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, cacheMessage(hit), resp)
}
