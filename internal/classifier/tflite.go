package classifier

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/klauspost/cpuid/v2"
	tflite "github.com/tphakala/go-tflite"
	"github.com/tphakala/go-tflite/delegates/xnnpack"

	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
)

// TFLiteModel runs a TensorFlow Lite image classifier.
type TFLiteModel struct {
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	delegate    *xnnpack.Delegate
	interpreter *tflite.Interpreter
	height      int
	width       int
	outputs     int

	// uint8 outputs are dequantized as scale * (q - zeroPoint).
	quantized bool
	scale     float64
	zeroPoint int
}

// LoadTFLite reads the model at path and prepares an interpreter. threads of 0
// uses the physical core count.
func LoadTFLite(path string, threads int, useXNNPACK bool) (*TFLiteModel, error) {
	start := time.Now()
	log := GetLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("classifier").
			Category(errors.CategoryModelLoad).
			Context("model_path", path).
			Timing("model-load", time.Since(start)).
			Build()
	}

	model := tflite.NewModel(data)
	if model == nil {
		return nil, errors.New(fmt.Errorf("cannot load TensorFlow Lite model")).
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("model_size_mb", len(data)/1024/1024).
			Context("use_xnnpack", useXNNPACK).
			Timing("model-init", time.Since(start)).
			Build()
	}

	threads = determineThreadCount(threads)
	m := &TFLiteModel{model: model, options: tflite.NewInterpreterOptions()}

	if useXNNPACK {
		m.delegate = xnnpack.New(xnnpack.DelegateOptions{NumThreads: int32(max(1, threads-1))}) //nolint:gosec // bounded by CPU count
		if m.delegate == nil {
			log.Warn("failed to create XNNPACK delegate, falling back to default CPU")
			m.options.SetNumThread(threads)
		} else {
			m.options.AddDelegate(m.delegate)
			m.options.SetNumThread(1)
		}
	} else {
		m.options.SetNumThread(threads)
	}
	m.options.SetErrorReporter(func(msg string, _ any) {
		GetLogger().Error("TFLite error", logger.String("message", msg))
	}, nil)

	m.interpreter = tflite.NewInterpreter(model, m.options)
	if m.interpreter == nil {
		_ = m.Close()
		return nil, errors.Newf("cannot create interpreter").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	if status := m.interpreter.AllocateTensors(); status != tflite.OK {
		_ = m.Close()
		return nil, errors.Newf("tensor allocation failed: %v", status).
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}

	input := m.interpreter.GetInputTensor(0)
	output := m.interpreter.GetOutputTensor(0)
	if input == nil || output == nil || input.NumDims() != 4 || input.Dim(3) != 3 {
		_ = m.Close()
		return nil, errors.Newf("model must take one (1, height, width, 3) image input").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	if err := checkTensorTypes(input.Type(), output.Type()); err != nil {
		_ = m.Close()
		return nil, err
	}
	m.height, m.width = input.Dim(1), input.Dim(2)
	m.outputs = output.Dim(output.NumDims() - 1)
	if output.Type() == tflite.UInt8 {
		q := output.QuantizationParams()
		m.quantized, m.scale, m.zeroPoint = true, q.Scale, q.ZeroPoint
	}

	log.Info("classification model initialized",
		logger.String("path", path),
		logger.Int("threads", threads),
		logger.Int("input_height", m.height),
		logger.Int("input_width", m.width),
		logger.Int("classes", m.outputs),
		logger.Bool("quantized_output", m.quantized),
		logger.Bool("xnnpack", m.delegate != nil),
		logger.Duration("load_time", time.Since(start)))

	return m, nil
}

func (m *TFLiteModel) InputSize() (height, width int) { return m.height, m.width }

func (m *TFLiteModel) OutputSize() int { return m.outputs }

// Infer copies input into the input tensor, invokes the interpreter and
// returns a copy of the output scores.
func (m *TFLiteModel) Infer(input []float32) ([]float32, error) {
	tensor := m.interpreter.GetInputTensor(0)
	if tensor == nil {
		return nil, fmt.Errorf("cannot get input tensor")
	}
	if want := len(tensor.Float32s()); want != len(input) {
		return nil, fmt.Errorf("input has %d values, model expects %d", len(input), want)
	}
	copy(tensor.Float32s(), input)

	if status := m.interpreter.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("tensor invoke failed: %v", status)
	}

	output := m.interpreter.GetOutputTensor(0)
	scores := make([]float32, m.outputs)
	if m.quantized {
		dequantize(scores, output.UInt8s(), m.scale, m.zeroPoint)
	} else {
		copy(scores, output.Float32s())
	}
	return scores, nil
}

// checkTensorTypes accepts float32 image input and float32 or uint8 scores.
func checkTensorTypes(input, output tflite.TensorType) error {
	if input != tflite.Float32 {
		return errors.Newf("model input tensor must be float32, got type %d", input).
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("input_type", int(input)).
			Build()
	}
	if output != tflite.Float32 && output != tflite.UInt8 {
		return errors.Newf("model output tensor must be float32 or uint8, got type %d", output).
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("output_type", int(output)).
			Build()
	}
	return nil
}

// dequantize fills dst from quantized scores. A missing scale keeps the raw
// ordering on a 0..1 range.
func dequantize(dst []float32, raw []uint8, scale float64, zeroPoint int) {
	if scale <= 0 {
		scale, zeroPoint = 1.0/255, 0
	}
	for i := range min(len(dst), len(raw)) {
		dst[i] = float32(scale * float64(int(raw[i])-zeroPoint))
	}
}

// Close releases interpreter, delegate, options and model.
func (m *TFLiteModel) Close() error {
	if m.interpreter != nil {
		m.interpreter.Delete()
		m.interpreter = nil
	}
	if m.delegate != nil {
		m.delegate.Delete()
		m.delegate = nil
	}
	if m.options != nil {
		m.options.Delete()
		m.options = nil
	}
	if m.model != nil {
		m.model.Delete()
		m.model = nil
	}
	return nil
}

// determineThreadCount bounds configured threads by the CPU count. Zero picks
// the number of physical cores, since hyperthreads do not speed up inference.
func determineThreadCount(configured int) int {
	cpus := runtime.NumCPU()
	if configured <= 0 {
		if physical := cpuid.CPU.PhysicalCores; physical > 0 {
			return min(physical, cpus)
		}
		return cpus
	}
	return min(configured, cpus)
}
