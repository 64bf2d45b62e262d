package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/feature"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/imagery"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/inference"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/model"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/utils"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/vectorize"
)

var (
	ErrQueueFull        = errors.New("processing queue is full")
	ErrModelUnavailable = errors.New("roof model unavailable")
)

// MaskCleaner 矢量化前的掩码清理
type MaskCleaner interface {
	Clean(mask *vectorize.Mask) *vectorize.Mask
}

// SegmentationService 模型推理 + 矢量化，并发数受信号量限制
type SegmentationService struct {
	model        inference.Model
	cleaner      MaskCleaner
	cache        Cache
	semaphore    chan struct{}
	queueTimeout time.Duration
	epsilon      float64
	noiseArea    float64
	threshold    float32
}

// NewSegmentationService m 为 nil 时 ProcessImage 返回 ErrModelUnavailable
func NewSegmentationService(cfg *config.Config, m inference.Model, cleaner MaskCleaner, cache Cache) *SegmentationService {
	maxConcurrent := cfg.Inference.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	queueTimeout := cfg.Inference.QueueTimeout
	if queueTimeout <= 0 {
		queueTimeout = 30 * time.Second
	}
	return &SegmentationService{
		model:        m,
		cleaner:      cleaner,
		cache:        cache,
		semaphore:    make(chan struct{}, maxConcurrent),
		queueTimeout: queueTimeout,
		epsilon:      cfg.Vectorize.Epsilon,
		noiseArea:    cfg.Vectorize.NoiseArea,
		threshold:    float32(cfg.Vectorize.Threshold),
	}
}

// Available 是否加载了模型
func (s *SegmentationService) Available() bool {
	return s.model != nil
}

// ProcessImage 处理图片并返回屋顶多边形，结果按 md5 缓存
func (s *SegmentationService) ProcessImage(ctx context.Context, data []byte, md5 string) (*model.TraceResult, bool, error) {
	if s.model == nil {
		return nil, false, ErrModelUnavailable
	}

	return cached(ctx, s.cache, traceKeyPrefix+md5, func() (*model.TraceResult, error) {
		return s.process(ctx, data, md5)
	})
}

func (s *SegmentationService) process(ctx context.Context, data []byte, md5 string) (*model.TraceResult, error) {
	img, format, err := imagery.Decode(data)
	if err != nil {
		return nil, err
	}

	// 并发控制
	waitCtx, cancel := context.WithTimeout(ctx, s.queueTimeout)
	defer cancel()

	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	case <-waitCtx.Done():
		return nil, ErrQueueFull
	}

	startTime := time.Now()
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	utils.Logger.Info("processing image",
		zap.String("md5", md5),
		zap.String("format", format),
		zap.Int("width", width),
		zap.Int("height", height))

	prob, err := s.model.Predict(img)
	if err != nil {
		return nil, fmt.Errorf("roof model prediction failed: %w", err)
	}

	mask := vectorize.Threshold(prob, s.threshold)
	if s.cleaner != nil {
		mask = s.cleaner.Clean(mask)
	}

	polygons := vectorize.VectorizeWithThreshold(mask, s.epsilon, s.noiseArea)
	fc := feature.Encode(feature.ItemsFromPolygons(polygons, prob), feature.RoofClassID)

	utils.Logger.Info("image processed successfully",
		zap.String("md5", md5),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("polygons", len(polygons)),
		zap.Int("foreground_pixels", mask.Count()))

	return &model.TraceResult{
		MD5:       md5,
		Width:     width,
		Height:    height,
		Features:  fc,
		Timestamp: time.Now().Unix(),
	}, nil
}

// Result 按 md5 查询已缓存的处理结果，未找到时返回 nil
func (s *SegmentationService) Result(ctx context.Context, md5 string) (*model.TraceResult, error) {
	var result model.TraceResult
	ok, err := s.cache.GetJSON(ctx, traceKeyPrefix+md5, &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &result, nil
}
