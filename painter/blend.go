package painter

import "github.com/gogpu/gputypes"

// BlendComponent describes how one channel group (color or alpha) of the
// source is weighted against the destination.
type BlendComponent struct {
	SrcFactor gputypes.BlendFactor
	DstFactor gputypes.BlendFactor
	Operation gputypes.BlendOperation
}

// BlendState is the full blending configuration for premultiplied-alpha
// targets. The zero value is not meaningful; use BlendStateFor.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// Replace is the blend state used when blending is disabled.
var Replace = BlendState{
	Color: BlendComponent{SrcFactor: gputypes.BlendFactorOne, DstFactor: gputypes.BlendFactorZero, Operation: gputypes.BlendOperationAdd},
	Alpha: BlendComponent{SrcFactor: gputypes.BlendFactorOne, DstFactor: gputypes.BlendFactorZero, Operation: gputypes.BlendOperationAdd},
}

// BlendStateFor returns the blend configuration of a composition mode
// combined with a blend equation.
func BlendStateFor(mode CompositionMode, eq BlendEquation) BlendState {
	op := Operation(eq)

	var src, dst gputypes.BlendFactor
	alphaSrc, alphaDst := gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha

	switch mode {
	case CompositionMultiply:
		src, dst = gputypes.BlendFactorDst, gputypes.BlendFactorOneMinusSrcAlpha
	case CompositionAdd:
		src, dst = gputypes.BlendFactorOne, gputypes.BlendFactorOne
		alphaSrc, alphaDst = gputypes.BlendFactorOne, gputypes.BlendFactorOne
	case CompositionReplace:
		src, dst = gputypes.BlendFactorOne, gputypes.BlendFactorZero
		alphaSrc, alphaDst = gputypes.BlendFactorOne, gputypes.BlendFactorZero
	case CompositionDestBlending:
		src, dst = gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorDstAlpha
		alphaSrc, alphaDst = gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorDstAlpha
	case CompositionLight:
		src, dst = gputypes.BlendFactorZero, gputypes.BlendFactorSrc
		alphaSrc, alphaDst = gputypes.BlendFactorZero, gputypes.BlendFactorOne
	default:
		src, dst = gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha
	}

	return BlendState{
		Color: BlendComponent{SrcFactor: src, DstFactor: dst, Operation: op},
		Alpha: BlendComponent{SrcFactor: alphaSrc, DstFactor: alphaDst, Operation: op},
	}
}

// Operation maps a blend equation to its GPU blend operation.
func Operation(eq BlendEquation) gputypes.BlendOperation {
	switch eq {
	case BlendMax:
		return gputypes.BlendOperationMax
	case BlendMin:
		return gputypes.BlendOperationMin
	case BlendSubtract:
		return gputypes.BlendOperationSubtract
	case BlendReverseSubtract:
		return gputypes.BlendOperationReverseSubtract
	default:
		return gputypes.BlendOperationAdd
	}
}

// factor evaluates f for one channel. src and dst are the premultiplied
// channel values, srcA and dstA the alphas.
func factor(f gputypes.BlendFactor, src, dst, srcA, dstA float32) float32 {
	switch f {
	case gputypes.BlendFactorZero:
		return 0
	case gputypes.BlendFactorOne:
		return 1
	case gputypes.BlendFactorSrc:
		return src
	case gputypes.BlendFactorOneMinusSrc:
		return 1 - src
	case gputypes.BlendFactorSrcAlpha:
		return srcA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - srcA
	case gputypes.BlendFactorDst:
		return dst
	case gputypes.BlendFactorOneMinusDst:
		return 1 - dst
	case gputypes.BlendFactorDstAlpha:
		return dstA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 1 - dstA
	default:
		return 1
	}
}

// apply combines the weighted source and destination with op.
// Min and max ignore the factors, as on GPUs.
func apply(op gputypes.BlendOperation, s, sf, d, df float32) float32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return s*sf - d*df
	case gputypes.BlendOperationReverseSubtract:
		return d*df - s*sf
	case gputypes.BlendOperationMin:
		return min(s, d)
	case gputypes.BlendOperationMax:
		return max(s, d)
	default:
		return s*sf + d*df
	}
}

// Blend combines a premultiplied source pixel with a premultiplied
// destination pixel. All channels are in [0, 1].
func (b *BlendState) Blend(src, dst [4]float32) [4]float32 {
	var out [4]float32
	sa, da := src[3], dst[3]
	for i := 0; i < 3; i++ {
		sf := factor(b.Color.SrcFactor, src[i], dst[i], sa, da)
		df := factor(b.Color.DstFactor, src[i], dst[i], sa, da)
		out[i] = clamp01(apply(b.Color.Operation, src[i], sf, dst[i], df))
	}
	sf := factor(b.Alpha.SrcFactor, sa, da, sa, da)
	df := factor(b.Alpha.DstFactor, sa, da, sa, da)
	out[3] = clamp01(apply(b.Alpha.Operation, sa, sf, da, df))
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
