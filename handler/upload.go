package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/service"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
)

type UploadHandler struct {
	cfg          *config.Config
	segmentation *service.SegmentationService
}

func NewUploadHandler(cfg *config.Config, segmentation *service.SegmentationService) *UploadHandler {
	return &UploadHandler{
		cfg:          cfg,
		segmentation: segmentation,
	}
}

// Upload 上传屋顶图片，经模型分割后返回 GeoJSON
func (h *UploadHandler) Upload(c *gin.Context) {
	if !h.segmentation.Available() {
		respondError(c, service.ErrModelUnavailable)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.Logger.Error("failed to get uploaded file", zap.Error(err))
		respondError(c, model.Wrap(http.StatusBadRequest, "请上传图片文件", err))
		return
	}

	// 验证文件大小
	if file.Size > h.cfg.Upload.MaxSize {
		respondError(c, model.NewError(http.StatusBadRequest,
			fmt.Sprintf("文件大小超过限制 (%d MB)", h.cfg.Upload.MaxSize/(1024*1024))))
		return
	}

	// 验证文件类型
	contentType := file.Header.Get("Content-Type")
	if !h.isAllowedType(contentType) {
		respondError(c, model.NewError(http.StatusBadRequest, "不支持的文件类型，仅支持 JPEG/PNG/WEBP/TIFF"))
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, fmt.Errorf("open uploaded file: %w", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.cfg.Upload.MaxSize+1))
	if err != nil {
		respondError(c, fmt.Errorf("read uploaded file: %w", err))
		return
	}

	md5 := utils.BytesMD5(data)
	utils.Logger.Info("file uploaded",
		zap.String("filename", file.Filename),
		zap.String("md5", md5),
		zap.Int64("size", file.Size))

	result, hit, err := h.segmentation.ProcessImage(c.Request.Context(), data, md5)
	if err != nil {
		utils.Logger.Error("failed to process image", zap.String("md5", md5), zap.Error(err))
		respondError(c, err)
		return
	}

	respondOK(c, cacheMessage(hit), result)
}

// GetByMD5 根据MD5获取已处理的结果
func (h *UploadHandler) GetByMD5(c *gin.Context) {
	md5 := c.Param("md5")
	if md5 == "" {
		respondError(c, model.NewError(http.StatusBadRequest, "MD5参数缺失"))
		return
	}

	result, err := h.segmentation.Result(c.Request.Context(), md5)
	if err != nil {
		utils.Logger.Error("failed to get trace result", zap.Error(err))
		respondError(c, err)
		return
	}

	if result == nil {
		respondError(c, model.NewError(http.StatusNotFound, "未找到该图片的处理结果"))
		return
	}

	respondOK(c, "查询成功", result)
}

func (h *UploadHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}
