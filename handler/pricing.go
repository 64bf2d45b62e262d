package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/middleware"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/service"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

type PricingHandler struct {
	pricing *service.PricingService
}

func NewPricingHandler(pricing *service.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// Bundle 价格表
func (h *PricingHandler) Bundle(c *gin.Context) {
	bundle, err := h.pricing.Bundle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "查询成功", bundle)
}

// Quote 报价
func (h *PricingHandler) Quote(c *gin.Context) {
	var req model.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.pricing.Quote(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "报价成功", quote)
}

func (h *PricingHandler) ListProducts(c *gin.Context) {
	products, err := h.pricing.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "查询成功", products)
}

func (h *PricingHandler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	p, err := h.pricing.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "查询成功", p)
}

func (h *PricingHandler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.pricing.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Logger.Info("admin action", zap.String("subject", middleware.GetSubject(c)), zap.String("action", "create_product"), zap.Int64("id", p.ID))
	c.JSON(http.StatusCreated, model.Response{Success: true, Message: "创建成功", Data: p})
}

func (h *PricingHandler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var req model.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.pricing.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Logger.Info("admin action", zap.String("subject", middleware.GetSubject(c)), zap.String("action", "update_product"), zap.Int64("id", id))
	respondOK(c, "更新成功", p)
}

func (h *PricingHandler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	p, err := h.pricing.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Logger.Info("admin action", zap.String("subject", middleware.GetSubject(c)), zap.String("action", "delete_product"), zap.Int64("id", id))
	respondOK(c, "删除成功", p)
}

func (h *PricingHandler) ListSettings(c *gin.Context) {
	settings, err := h.pricing.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "查询成功", settings)
}

func (h *PricingHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	var req model.UpdateSettingRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.pricing.UpdateSetting(c.Request.Context(), key, *req.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Logger.Info("admin action", zap.String("subject", middleware.GetSubject(c)), zap.String("action", "update_setting"), zap.String("key", key))
	respondOK(c, "更新成功", s)
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, model.NewError(http.StatusBadRequest, "产品 ID 无效"))
		return 0, false
	}
	return id, true
}
