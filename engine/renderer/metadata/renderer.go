package metadata

import "github.com/spaghettifunk/pendulum/engine/math"

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	/** @brief Depth of the frame resource ring. */
	FramesInFlight   int
	EnableValidation bool
}

/**
 * @brief Buckets render items are drawn from. An item may sit in more than one.
 */
type RenderLayer int

const (
	RenderLayerOpaque RenderLayer = iota
	RenderLayerMirror
	RenderLayerReflected
	RenderLayerTransparent
	RenderLayerShadow
	RenderLayerCount
)

func (l RenderLayer) String() string {
	switch l {
	case RenderLayerOpaque:
		return "opaque"
	case RenderLayerMirror:
		return "mirror"
	case RenderLayerReflected:
		return "reflected"
	case RenderLayerTransparent:
		return "transparent"
	case RenderLayerShadow:
		return "shadow"
	}
	return "unknown"
}

/**
 * @brief Index of a pipeline state. Pipelines are stored in an array keyed by this.
 */
type PipelineKind int

const (
	PipelineOpaque PipelineKind = iota
	PipelineMarkStencilMirror
	PipelineDrawStencilReflections
	PipelineTransparent
	PipelineShadow
	PipelineKindCount
)

func (k PipelineKind) String() string {
	switch k {
	case PipelineOpaque:
		return "opaque"
	case PipelineMarkStencilMirror:
		return "markStencilMirror"
	case PipelineDrawStencilReflections:
		return "drawStencilReflections"
	case PipelineTransparent:
		return "transparent"
	case PipelineShadow:
		return "shadow"
	}
	return "unknown"
}

type CompareOp int

const (
	CompareNever CompareOp = iota
	CompareLess
	CompareEqual
	CompareLessOrEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterOrEqual
	CompareAlways
)

type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrementClamp
	StencilDecrementClamp
	StencilInvert
)

type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendInvSrcAlpha
)

type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

/**
 * @brief Winding treated as front facing, as seen on screen.
 */
type FrontFace int

const (
	FrontFaceClockwise FrontFace = iota
	FrontFaceCounterClockwise
)

type ColorWriteMask uint8

const (
	ColorWriteR   ColorWriteMask = 0x1
	ColorWriteG   ColorWriteMask = 0x2
	ColorWriteB   ColorWriteMask = 0x4
	ColorWriteA   ColorWriteMask = 0x8
	ColorWriteAll ColorWriteMask = 0xf
)

type StencilFaceState struct {
	FailOp      StencilOp
	DepthFailOp StencilOp
	PassOp      StencilOp
	Compare     CompareOp
}

type DepthStencilState struct {
	DepthTest    bool
	DepthWrite   bool
	DepthCompare CompareOp
	StencilTest  bool
	ReadMask     uint8
	WriteMask    uint8
	Front        StencilFaceState
	Back         StencilFaceState
}

type BlendState struct {
	Enabled   bool
	SrcColor  BlendFactor
	DstColor  BlendFactor
	SrcAlpha  BlendFactor
	DstAlpha  BlendFactor
	WriteMask ColorWriteMask
}

type RasterState struct {
	Cull      CullMode
	FrontFace FrontFace
}

/**
 * @brief Fixed-function state and shader stages of one pipeline.
 */
type PipelineConfig struct {
	Kind PipelineKind
	/** @brief Name used in logs and debug markers. */
	Name           string
	VertexShader   string
	FragmentShader string
	Raster         RasterState
	DepthStencil   DepthStencilState
	Blend          BlendState
}

/**
 * @brief Clear values for the single render pass the frame is recorded in.
 */
type RenderPassConfig struct {
	ClearColour  math.Vec4
	ClearDepth   float32
	ClearStencil uint32
}
