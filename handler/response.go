package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/client"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/geo"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/middleware"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/repository"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/service"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/vectorize"
)

var validate = validator.New()

// errorMapping 已知错误对应的状态码和提示
var errorMapping = []struct {
	err     error
	status  int
	message string
}{
	{client.ErrBuildingNotFound, http.StatusNotFound, "该位置没有建筑数据"},
	{client.ErrQuotaExceeded, http.StatusTooManyRequests, "Solar API 密钥无效或配额已用完"},
	{client.ErrSolarNotConfigured, http.StatusServiceUnavailable, "Solar API 未配置"},
	{client.ErrTileFetch, http.StatusBadGateway, "获取卫星瓦片失败"},
	{client.ErrNoFootprint, http.StatusNotFound, "该位置没有建筑轮廓"},
	{service.ErrModelUnavailable, http.StatusServiceUnavailable, "屋顶分割模型未加载"},
	{service.ErrQueueFull, http.StatusServiceUnavailable, "服务器繁忙，请稍后再试"},
	{repository.ErrNotFound, http.StatusNotFound, "记录不存在"},
	{repository.ErrDuplicateSlug, http.StatusConflict, "产品标识已存在"},
	{vectorize.ErrDimensionMismatch, http.StatusBadRequest, "掩码尺寸不一致"},
	{geo.ErrInvalidBoundingBox, http.StatusBadRequest, "边界框无效"},
}

// classify model.Error 优先，其次按已知错误匹配，其余为 500
func classify(err error) (int, string) {
	var e *model.Error
	if errors.As(err, &e) {
		return e.Code, e.Message
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "服务器内部错误"
}

// respondError 写入错误响应，5xx 附带 trace_id 并记录日志
func respondError(c *gin.Context, err error) {
	status, message := classify(err)
	resp := model.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	}

	if status >= http.StatusInternalServerError {
		resp.TraceID = utils.NewTraceID()
		utils.Logger.Error("request failed",
			zap.String("trace_id", resp.TraceID),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}

	_ = c.Error(err)
	c.JSON(status, resp)
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func cacheMessage(hit bool) string {
	if hit {
		return "处理成功（来自缓存）"
	}
	return "处理成功"
}

// bindJSON 解码并校验请求体，失败时已写入 400 响应
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondError(c, model.Wrap(http.StatusBadRequest, "请求体格式错误", err))
		return false
	}
	if err := validate.Struct(out); err != nil {
		respondError(c, model.Wrap(http.StatusBadRequest, "参数校验失败", err))
		return false
	}
	return true
}

// bindQuery 解码并校验查询参数
func bindQuery(c *gin.Context, out any) bool {
	if err := c.ShouldBindQuery(out); err != nil {
		respondError(c, model.Wrap(http.StatusBadRequest, "查询参数格式错误", err))
		return false
	}
	if err := validate.Struct(out); err != nil {
		respondError(c, model.Wrap(http.StatusBadRequest, "参数校验失败", err))
		return false
	}
	return true
}

// coordQuery lat/lng 必填
type coordQuery struct {
	Lat    *float64 `form:"lat" validate:"required,latitude"`
	Lng    *float64 `form:"lng" validate:"required,longitude"`
	Zoom   int      `form:"zoom" validate:"omitempty,min=1,max=22"`
	Radius float64  `form:"radius" validate:"omitempty,gt=0,max=1000"`
}
