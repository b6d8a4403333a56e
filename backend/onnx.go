package backend

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"pico-infer-go/picoinfer"
)

// ONNXModel runs a checkpoint's model.onnx through ONNX Runtime. Each
// Forward call builds its own session over preallocated tensors, so the
// model holds no native state between calls.
type ONNXModel struct {
	weightsPath string
	vocabSize   int
	device      picoinfer.Device
	closed      bool
}

// NewONNXModel prepares a model for the given weights file. The runtime
// environment is initialized once per process.
func NewONNXModel(weightsPath string, vocabSize int, device picoinfer.Device) (*ONNXModel, error) {
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: initialize onnx runtime: %v", picoinfer.ErrLoad, err)
		}
	}

	return &ONNXModel{
		weightsPath: weightsPath,
		vocabSize:   vocabSize,
		device:      device,
	}, nil
}

// Forward feeds the token sequence through the model and returns the
// logits for the last position.
func (m *ONNXModel) Forward(tokenIDs []int) ([]float32, error) {
	if m.closed {
		return nil, fmt.Errorf("model is closed")
	}
	if len(tokenIDs) == 0 {
		return nil, fmt.Errorf("empty token sequence")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	if err := options.SetIntraOpNumThreads(4); err != nil {
		return nil, fmt.Errorf("failed to set threads: %w", err)
	}
	if m.device == picoinfer.DeviceGPU {
		cudaOpts, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return nil, fmt.Errorf("failed to create CUDA provider: %w", err)
		}
		defer cudaOpts.Destroy()
		if err := options.AppendExecutionProviderCUDA(cudaOpts); err != nil {
			return nil, fmt.Errorf("failed to append CUDA provider: %w", err)
		}
	}

	seqLen := len(tokenIDs)
	inputData := make([]int64, seqLen)
	for i, id := range tokenIDs {
		inputData[i] = int64(id)
	}
	inputTensor, err := ort.NewTensor(ort.NewShape(1, int64(seqLen)), inputData)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputData := make([]float32, seqLen*m.vocabSize)
	outputTensor, err := ort.NewTensor(ort.NewShape(1, int64(seqLen), int64(m.vocabSize)), outputData)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	session, err := ort.NewAdvancedSession(
		m.weightsPath,
		[]string{"input_ids"},
		[]string{"logits"},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Destroy()

	if err := session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	// Logits shape is [1, seqLen, vocab]; only the last position matters
	// for next-token prediction. Copy it out before the tensor dies.
	all := outputTensor.GetData()
	last := (seqLen - 1) * m.vocabSize
	logits := make([]float32, m.vocabSize)
	copy(logits, all[last:last+m.vocabSize])
	return logits, nil
}

// Close marks the model closed. The shared runtime environment stays up
// for the rest of the process.
func (m *ONNXModel) Close() error {
	m.closed = true
	return nil
}

// gpuAvailable probes for a usable CUDA execution provider. The probe
// has no side effects beyond runtime environment initialization.
func gpuAvailable() bool {
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return false
		}
	}
	cudaOpts, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return false
	}
	cudaOpts.Destroy()
	return true
}
