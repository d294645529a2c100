package headless

import (
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// target holds the back buffer and the depth-stencil buffer.
type target struct {
	width, height int
	colour        []float32
	depth         []float32
	stencil       []uint8
}

func newTarget(width, height int) *target {
	return &target{
		width:   width,
		height:  height,
		colour:  make([]float32, width*height*4),
		depth:   make([]float32, width*height),
		stencil: make([]uint8, width*height),
	}
}

func (t *target) clear(pass metadata.RenderPassConfig) {
	c := pass.ClearColour
	for i := 0; i < t.width*t.height; i++ {
		t.colour[i*4+0] = c.X
		t.colour[i*4+1] = c.Y
		t.colour[i*4+2] = c.Z
		t.colour[i*4+3] = c.W
		t.depth[i] = pass.ClearDepth
		t.stencil[i] = uint8(pass.ClearStencil)
	}
}

type geometryData struct {
	vertices []math.Vertex3D
	indices  []uint16
}

type textureData struct {
	width, height int
	pixels        []uint8
}

// sample filters bilinearly with wrapping and returns RGBA in [0, 1].
func (t *textureData) sample(u, v float32) [4]float32 {
	if t == nil || t.width == 0 || t.height == 0 {
		return [4]float32{1, 1, 1, 1}
	}
	x := (u-math.Floor(u))*float32(t.width) - 0.5
	y := (v-math.Floor(v))*float32(t.height) - 0.5
	fx0 := math.Floor(x)
	fy0 := math.Floor(y)
	tx, ty := x-fx0, y-fy0
	x0, y0 := wrap(int(fx0), t.width), wrap(int(fy0), t.height)
	x1, y1 := wrap(x0+1, t.width), wrap(y0+1, t.height)

	var out [4]float32
	for c := 0; c < 4; c++ {
		p00 := float32(t.pixels[(y0*t.width+x0)*4+c])
		p10 := float32(t.pixels[(y0*t.width+x1)*4+c])
		p01 := float32(t.pixels[(y1*t.width+x0)*4+c])
		p11 := float32(t.pixels[(y1*t.width+x1)*4+c])
		top := p00 + (p10-p00)*tx
		bottom := p01 + (p11-p01)*tx
		out[c] = (top + (bottom-top)*ty) / 255
	}
	return out
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// drawState is the bound state while a list executes.
type drawState struct {
	pipeline    *metadata.PipelineConfig
	stencilRef  uint8
	common      metadata.CommonConstants
	viewProj    math.Mat4
	object      metadata.ObjectConstants
	world       math.Mat4
	uvTransform math.Mat4
	material    metadata.MaterialConstants
	texture     *textureData
	// frontFacing is set per triangle and selects the stencil face state.
	frontFacing bool
}

type varyings struct {
	posW   math.Vec3
	normal math.Vec3
	uv     math.Vec2
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	v       varyings
}

func (s *drawState) transform(v math.Vertex3D) (math.Vec4, varyings) {
	posW := v.Position.ToVec4(1).Transform(s.world)
	uv := math.NewVec4(v.Texcoord.X, v.Texcoord.Y, 0, 1).Transform(s.uvTransform)
	return posW.Transform(s.viewProj), varyings{
		posW:   posW.ToVec3(),
		normal: v.Normal.TransformNormal(s.world),
		uv:     math.NewVec2(uv.X, uv.Y),
	}
}

const minClipW = 1e-5

func (t *target) toScreen(pos math.Vec4, v varyings) screenVertex {
	invW := 1 / pos.W
	return screenVertex{
		x:    (pos.X*invW + 1) * 0.5 * float32(t.width),
		y:    (1 - pos.Y*invW) * 0.5 * float32(t.height),
		z:    pos.Z * invW,
		invW: invW,
		v:    v,
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// isTopLeft reports whether a->b is a top or left edge of a triangle with
// positive area in y-down screen space.
func isTopLeft(a, b screenVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return (dy == 0 && dx > 0) || dy < 0
}

func covered(w float32, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

func (t *target) drawIndexed(s *drawState, g *geometryData, submesh metadata.Submesh) {
	start := int(submesh.StartIndex)
	end := start + int(submesh.IndexCount)
	for i := start; i+2 < end; i += 3 {
		var tri [3]screenVertex
		visible := true
		for k := 0; k < 3; k++ {
			idx := int(g.indices[i+k]) + int(submesh.BaseVertex)
			pos, v := s.transform(g.vertices[idx])
			if pos.W < minClipW {
				visible = false
				break
			}
			tri[k] = t.toScreen(pos, v)
		}
		if visible {
			t.rasterize(s, tri)
		}
	}
}

func (t *target) rasterize(s *drawState, tri [3]screenVertex) {
	v0, v1, v2 := tri[0], tri[1], tri[2]
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}
	// positive area is clockwise on a y-down screen
	clockwise := area > 0
	front := clockwise == (s.pipeline.Raster.FrontFace == metadata.FrontFaceClockwise)
	switch s.pipeline.Raster.Cull {
	case metadata.CullBack:
		if !front {
			return
		}
	case metadata.CullFront:
		if front {
			return
		}
	}
	s.frontFacing = front
	if !clockwise {
		v1, v2 = v2, v1
		area = -area
	}

	minX := max(0, int(math.Floor(min(v0.x, v1.x, v2.x))))
	maxX := min(t.width-1, int(math.Floor(max(v0.x, v1.x, v2.x))))
	minY := max(0, int(math.Floor(min(v0.y, v1.y, v2.y))))
	maxY := min(t.height-1, int(math.Floor(max(v0.y, v1.y, v2.y))))

	tl0, tl1, tl2 := isTopLeft(v1, v2), isTopLeft(v2, v0), isTopLeft(v0, v1)
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(v1.x, v1.y, v2.x, v2.y, px, py)
			w1 := edge(v2.x, v2.y, v0.x, v0.y, px, py)
			w2 := edge(v0.x, v0.y, v1.x, v1.y, px, py)
			if !covered(w0, tl0) || !covered(w1, tl1) || !covered(w2, tl2) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area
			z := b0*v0.z + b1*v1.z + b2*v2.z
			if z < 0 || z > 1 {
				continue
			}
			t.fragment(s, x, y, z, b0, b1, b2, v0, v1, v2)
		}
	}
}

func (t *target) fragment(s *drawState, x, y int, z, b0, b1, b2 float32, v0, v1, v2 screenVertex) {
	ds := &s.pipeline.DepthStencil
	i := y*t.width + x

	stored := t.stencil[i]
	face := ds.Front
	if !s.frontFacing {
		face = ds.Back
	}
	if ds.StencilTest {
		if !compare(face.Compare, s.stencilRef&ds.ReadMask, stored&ds.ReadMask) {
			t.writeStencil(ds, i, applyStencilOp(face.FailOp, stored, s.stencilRef))
			return
		}
	}
	if ds.DepthTest && !compare(ds.DepthCompare, z, t.depth[i]) {
		if ds.StencilTest {
			t.writeStencil(ds, i, applyStencilOp(face.DepthFailOp, stored, s.stencilRef))
		}
		return
	}
	if ds.StencilTest {
		t.writeStencil(ds, i, applyStencilOp(face.PassOp, stored, s.stencilRef))
	}
	if ds.DepthTest && ds.DepthWrite {
		t.depth[i] = z
	}

	blend := &s.pipeline.Blend
	if blend.WriteMask == 0 {
		return
	}

	// perspective correct interpolation
	invW := b0*v0.invW + b1*v1.invW + b2*v2.invW
	c0, c1, c2 := b0*v0.invW/invW, b1*v1.invW/invW, b2*v2.invW/invW
	in := varyings{
		posW:   v0.v.posW.MulScalar(c0).Add(v1.v.posW.MulScalar(c1)).Add(v2.v.posW.MulScalar(c2)),
		normal: v0.v.normal.MulScalar(c0).Add(v1.v.normal.MulScalar(c1)).Add(v2.v.normal.MulScalar(c2)),
		uv: math.NewVec2(
			v0.v.uv.X*c0+v1.v.uv.X*c1+v2.v.uv.X*c2,
			v0.v.uv.Y*c0+v1.v.uv.Y*c1+v2.v.uv.Y*c2,
		),
	}
	src := shade(s, in)
	t.blend(blend, i, src)
}

func (t *target) writeStencil(ds *metadata.DepthStencilState, i int, value uint8) {
	t.stencil[i] = (t.stencil[i] &^ ds.WriteMask) | (value & ds.WriteMask)
}

func (t *target) blend(b *metadata.BlendState, i int, src [4]float32) {
	dst := t.colour[i*4 : i*4+4]
	out := src
	if b.Enabled {
		for c := 0; c < 3; c++ {
			out[c] = src[c]*factor(b.SrcColor, src, dst) + dst[c]*factor(b.DstColor, src, dst)
		}
		out[3] = src[3]*factor(b.SrcAlpha, src, dst) + dst[3]*factor(b.DstAlpha, src, dst)
	}
	masks := [4]metadata.ColorWriteMask{metadata.ColorWriteR, metadata.ColorWriteG, metadata.ColorWriteB, metadata.ColorWriteA}
	for c := 0; c < 4; c++ {
		if b.WriteMask&masks[c] != 0 {
			dst[c] = math.Clamp(out[c], 0, 1)
		}
	}
}

func factor(f metadata.BlendFactor, src [4]float32, dst []float32) float32 {
	switch f {
	case metadata.BlendOne:
		return 1
	case metadata.BlendSrcAlpha:
		return src[3]
	case metadata.BlendInvSrcAlpha:
		return 1 - src[3]
	}
	return 0
}

func compare[T uint8 | float32](op metadata.CompareOp, a, b T) bool {
	switch op {
	case metadata.CompareNever:
		return false
	case metadata.CompareLess:
		return a < b
	case metadata.CompareEqual:
		return a == b
	case metadata.CompareLessOrEqual:
		return a <= b
	case metadata.CompareGreater:
		return a > b
	case metadata.CompareNotEqual:
		return a != b
	case metadata.CompareGreaterOrEqual:
		return a >= b
	}
	return true
}

func applyStencilOp(op metadata.StencilOp, value, ref uint8) uint8 {
	switch op {
	case metadata.StencilZero:
		return 0
	case metadata.StencilReplace:
		return ref
	case metadata.StencilIncrementClamp:
		if value == 0xff {
			return value
		}
		return value + 1
	case metadata.StencilDecrementClamp:
		if value == 0 {
			return value
		}
		return value - 1
	case metadata.StencilInvert:
		return ^value
	}
	return value
}
