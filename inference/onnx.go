package inference

import (
	"errors"
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/config"
	"github.com/EXIMIA-AI-AGENCY/sella-el-techo-cotizador/vectorize"
)

var ErrModelNotConfigured = errors.New("roof model not configured")

// ONNXModel 固定输入输出张量的 ONNX 会话，同一时间只运行一次推理
type ONNXModel struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	size         int
}

func NewONNXModel(cfg *config.InferenceConfig) (*ONNXModel, error) {
	if cfg.ModelPath == "" {
		return nil, ErrModelNotConfigured
	}
	if cfg.SharedLibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.SharedLibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	size := int64(cfg.InputSize)
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1, size, size))
	if err != nil {
		inputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXModel{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		size:         cfg.InputSize,
	}, nil
}

// Predict 推理并返回原图尺寸的概率图
func (m *ONNXModel) Predict(img image.Image) (*vectorize.ProbabilityMap, error) {
	b := img.Bounds()
	input := Preprocess(img, m.size)

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.inputTensor.GetData(), input)
	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	return Postprocess(m.outputTensor.GetData(), m.size, b.Dx(), b.Dy()), nil
}

func (m *ONNXModel) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inputTensor != nil {
		m.inputTensor.Destroy()
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
	}
	if m.session != nil {
		m.session.Destroy()
	}
	ort.DestroyEnvironment()
}
