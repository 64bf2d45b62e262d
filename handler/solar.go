package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/service"
)

// EstimateHandler 材料估算相关接口
type EstimateHandler struct {
	solar     *service.SolarService
	footprint *service.FootprintService
}

func NewEstimateHandler(solar *service.SolarService, footprint *service.FootprintService) *EstimateHandler {
	return &EstimateHandler{
		solar:     solar,
		footprint: footprint,
	}
}

// Insights Solar 屋顶数据估算
func (h *EstimateHandler) Insights(c *gin.Context) {
	var q coordQuery
	if !bindQuery(c, &q) {
		return
	}

	resp, hit, err := h.solar.Insights(c.Request.Context(), *q.Lat, *q.Lng)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, cacheMessage(hit), resp)
}

// Layers Solar 数据图层
func (h *EstimateHandler) Layers(c *gin.Context) {
	var q coordQuery
	if !bindQuery(c, &q) {
		return
	}

	resp, err := h.solar.Layers(c.Request.Context(), *q.Lat, *q.Lng, q.Radius)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "查询成功", resp)
}

// Estimate 直接提交屋顶面数据估算
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req model.EstimateRequest
	if !bindJSON(c, &req) {
		return
	}

	respondOK(c, "处理成功", service.Estimate(req.Segments, req.WholeRoofAreaM2))
}

// Footprint OSM 建筑轮廓估算
func (h *EstimateHandler) Footprint(c *gin.Context) {
	var q coordQuery
	if !bindQuery(c, &q) {
		return
	}

	resp, err := h.footprint.Footprint(c.Request.Context(), *q.Lat, *q.Lng)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "查询成功", resp)
}
