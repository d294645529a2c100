package renderer

import "github.com/spaghettifunk/pendulum/engine/renderer/metadata"

const (
	BuiltinVertexShader   = "basic.vert"
	BuiltinFragmentShader = "basic.frag"
)

var (
	opaqueDepth = metadata.DepthStencilState{
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: metadata.CompareLess,
		ReadMask:     0xff,
		WriteMask:    0xff,
	}
	noBlend = metadata.BlendState{
		SrcColor:  metadata.BlendOne,
		DstColor:  metadata.BlendZero,
		SrcAlpha:  metadata.BlendOne,
		DstAlpha:  metadata.BlendZero,
		WriteMask: metadata.ColorWriteAll,
	}
	alphaBlend = metadata.BlendState{
		Enabled:   true,
		SrcColor:  metadata.BlendSrcAlpha,
		DstColor:  metadata.BlendInvSrcAlpha,
		SrcAlpha:  metadata.BlendOne,
		DstAlpha:  metadata.BlendZero,
		WriteMask: metadata.ColorWriteAll,
	}
	backfaceCulled = metadata.RasterState{
		Cull:      metadata.CullBack,
		FrontFace: metadata.FrontFaceClockwise,
	}
)

func stencilBothFaces(compare metadata.CompareOp, pass metadata.StencilOp) (metadata.StencilFaceState, metadata.StencilFaceState) {
	face := metadata.StencilFaceState{
		FailOp:      metadata.StencilKeep,
		DepthFailOp: metadata.StencilKeep,
		PassOp:      pass,
		Compare:     compare,
	}
	return face, face
}

/**
 * @brief Returns the fixed-function state of every pipeline, indexed by kind.
 */
func DefaultPipelineConfigs() [metadata.PipelineKindCount]metadata.PipelineConfig {
	var configs [metadata.PipelineKindCount]metadata.PipelineConfig

	configs[metadata.PipelineOpaque] = metadata.PipelineConfig{
		Raster:       backfaceCulled,
		DepthStencil: opaqueDepth,
		Blend:        noBlend,
	}

	// Writes ref into the stencil wherever the mirror is visible. Depth is
	// tested so that the mirror is only marked where nothing occludes it.
	mark := opaqueDepth
	mark.DepthWrite = false
	mark.StencilTest = true
	mark.Front, mark.Back = stencilBothFaces(metadata.CompareAlways, metadata.StencilReplace)
	markBlend := noBlend
	markBlend.WriteMask = 0
	configs[metadata.PipelineMarkStencilMirror] = metadata.PipelineConfig{
		Raster:       backfaceCulled,
		DepthStencil: mark,
		Blend:        markBlend,
	}

	reflect := opaqueDepth
	reflect.StencilTest = true
	reflect.Front, reflect.Back = stencilBothFaces(metadata.CompareEqual, metadata.StencilKeep)
	configs[metadata.PipelineDrawStencilReflections] = metadata.PipelineConfig{
		// the reflection flips the winding of every triangle
		Raster: metadata.RasterState{
			Cull:      metadata.CullBack,
			FrontFace: metadata.FrontFaceCounterClockwise,
		},
		DepthStencil: reflect,
		Blend:        noBlend,
	}

	configs[metadata.PipelineTransparent] = metadata.PipelineConfig{
		Raster:       backfaceCulled,
		DepthStencil: opaqueDepth,
		Blend:        alphaBlend,
	}

	// Equal against ref 0 then increment: a pixel already darkened fails the test.
	shadow := opaqueDepth
	shadow.StencilTest = true
	shadow.Front, shadow.Back = stencilBothFaces(metadata.CompareEqual, metadata.StencilIncrementClamp)
	configs[metadata.PipelineShadow] = metadata.PipelineConfig{
		Raster:       backfaceCulled,
		DepthStencil: shadow,
		Blend:        alphaBlend,
	}

	for kind := range configs {
		configs[kind].Kind = metadata.PipelineKind(kind)
		configs[kind].Name = metadata.PipelineKind(kind).String()
		configs[kind].VertexShader = BuiltinVertexShader
		configs[kind].FragmentShader = BuiltinFragmentShader
	}
	return configs
}
