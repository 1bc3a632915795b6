package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: Pure Go reference implementation
//
// Backend methods panic on malformed inputs (wrong rank, mismatched shapes):
// by the time a RawTensor reaches a backend the surrounding layer has already
// validated the caller-facing contract, so a violation here is a programmer
// error, not a recoverable condition.
type Backend interface {
	// Element-wise binary operations (same-shape operands)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar)
	AddScalar(x *RawTensor, scalar float32) *RawTensor
	MulScalar(x *RawTensor, scalar float32) *RawTensor

	// Matrix operations
	// [M, K] @ [K, N] -> [M, N]
	MatMul(a, b *RawTensor) *RawTensor

	// Convolutional operations
	// Conv2D: input [N, C_in, H, W], kernel [C_out, C_in, K_h, K_w]
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// Pooling operations over [N, C, H, W]
	AvgPool2D(input *RawTensor, kernelSize, stride, padding int) *RawTensor
	MaxPool2D(input *RawTensor, kernelSize, stride, padding int) *RawTensor
	// AdaptiveAvgPool2D averages each channel down to [outH, outW] output cells.
	AdaptiveAvgPool2D(input *RawTensor, outH, outW int) *RawTensor

	// BatchNorm2D normalizes [N, C, H, W] per channel using batch statistics
	// and scales by weight [C]. There is no shift term.
	BatchNorm2D(input, weight *RawTensor, eps float32) *RawTensor

	// GreaterScalar returns a 0/1 tensor marking elements strictly above the
	// threshold. Spiking cells use it for the firing condition.
	GreaterScalar(x *RawTensor, threshold float32) *RawTensor

	// Reduction and activation
	Sum(x *RawTensor) float32
	Softmax(x *RawTensor, dim int) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
