package systems

import (
	"github.com/spaghettifunk/pendulum/engine/math"
)

// MeshData is generated vertex and index data before it is registered.
type MeshData struct {
	Vertices []math.Vertex3D
	Indices  []uint16
}

func vertex(px, py, pz, nx, ny, nz, u, v float32) math.Vertex3D {
	return math.Vertex3D{
		Position: math.NewVec3(px, py, pz),
		Normal:   math.NewVec3(nx, ny, nz),
		Texcoord: math.NewVec2(u, v),
	}
}

/**
 * @brief Generates an axis aligned box centred at the origin. Faces wind
 * clockwise when seen from outside.
 */
func GenerateBox(width, height, depth float32) MeshData {
	w2, h2, d2 := 0.5*width, 0.5*height, 0.5*depth

	vertices := []math.Vertex3D{
		// front
		vertex(-w2, -h2, -d2, 0, 0, -1, 0, 1),
		vertex(-w2, +h2, -d2, 0, 0, -1, 0, 0),
		vertex(+w2, +h2, -d2, 0, 0, -1, 1, 0),
		vertex(+w2, -h2, -d2, 0, 0, -1, 1, 1),
		// back
		vertex(-w2, -h2, +d2, 0, 0, 1, 1, 1),
		vertex(+w2, -h2, +d2, 0, 0, 1, 0, 1),
		vertex(+w2, +h2, +d2, 0, 0, 1, 0, 0),
		vertex(-w2, +h2, +d2, 0, 0, 1, 1, 0),
		// top
		vertex(-w2, +h2, -d2, 0, 1, 0, 0, 1),
		vertex(-w2, +h2, +d2, 0, 1, 0, 0, 0),
		vertex(+w2, +h2, +d2, 0, 1, 0, 1, 0),
		vertex(+w2, +h2, -d2, 0, 1, 0, 1, 1),
		// bottom
		vertex(-w2, -h2, -d2, 0, -1, 0, 1, 1),
		vertex(+w2, -h2, -d2, 0, -1, 0, 0, 1),
		vertex(+w2, -h2, +d2, 0, -1, 0, 0, 0),
		vertex(-w2, -h2, +d2, 0, -1, 0, 1, 0),
		// left
		vertex(-w2, -h2, +d2, -1, 0, 0, 0, 1),
		vertex(-w2, +h2, +d2, -1, 0, 0, 0, 0),
		vertex(-w2, +h2, -d2, -1, 0, 0, 1, 0),
		vertex(-w2, -h2, -d2, -1, 0, 0, 1, 1),
		// right
		vertex(+w2, -h2, -d2, 1, 0, 0, 0, 1),
		vertex(+w2, +h2, -d2, 1, 0, 0, 0, 0),
		vertex(+w2, +h2, +d2, 1, 0, 0, 1, 0),
		vertex(+w2, -h2, +d2, 1, 0, 0, 1, 1),
	}

	indices := make([]uint16, 0, 36)
	for f := uint16(0); f < 6; f++ {
		b := f * 4
		indices = append(indices, b, b+1, b+2, b, b+2, b+3)
	}
	return MeshData{Vertices: vertices, Indices: indices}
}

/**
 * @brief Generates a UV sphere centred at the origin from poles and rings.
 */
func GenerateSphere(radius float32, sliceCount, stackCount int) MeshData {
	md := MeshData{}
	md.Vertices = append(md.Vertices, vertex(0, radius, 0, 0, 1, 0, 0, 0))

	phiStep := math.K_PI / float32(stackCount)
	thetaStep := math.K_PI_2 / float32(sliceCount)

	for i := 1; i < stackCount; i++ {
		phi := float32(i) * phiStep
		for j := 0; j <= sliceCount; j++ {
			theta := float32(j) * thetaStep
			p := math.NewVec3(
				radius*math.Sin(phi)*math.Cos(theta),
				radius*math.Cos(phi),
				radius*math.Sin(phi)*math.Sin(theta),
			)
			n := p.Normalized()
			md.Vertices = append(md.Vertices, vertex(p.X, p.Y, p.Z, n.X, n.Y, n.Z, theta/math.K_PI_2, phi/math.K_PI))
		}
	}
	md.Vertices = append(md.Vertices, vertex(0, -radius, 0, 0, -1, 0, 0, 1))

	for i := 1; i <= sliceCount; i++ {
		md.Indices = append(md.Indices, 0, uint16(i+1), uint16(i))
	}

	base := 1
	ring := sliceCount + 1
	for i := 0; i < stackCount-2; i++ {
		for j := 0; j < sliceCount; j++ {
			md.Indices = append(md.Indices,
				uint16(base+i*ring+j),
				uint16(base+i*ring+j+1),
				uint16(base+(i+1)*ring+j),

				uint16(base+(i+1)*ring+j),
				uint16(base+i*ring+j+1),
				uint16(base+(i+1)*ring+j+1),
			)
		}
	}

	south := len(md.Vertices) - 1
	base = south - ring
	for i := 0; i < sliceCount; i++ {
		md.Indices = append(md.Indices, uint16(south), uint16(base+i), uint16(base+i+1))
	}
	return md
}

/**
 * @brief Generates a capped cylinder along the y axis centred at the origin.
 */
func GenerateCylinder(bottomRadius, topRadius, height float32, sliceCount, stackCount int) MeshData {
	md := MeshData{}

	stackHeight := height / float32(stackCount)
	radiusStep := (topRadius - bottomRadius) / float32(stackCount)
	dTheta := math.K_PI_2 / float32(sliceCount)

	for i := 0; i <= stackCount; i++ {
		y := -0.5*height + float32(i)*stackHeight
		r := bottomRadius + float32(i)*radiusStep
		for j := 0; j <= sliceCount; j++ {
			c := math.Cos(float32(j) * dTheta)
			s := math.Sin(float32(j) * dTheta)

			tangent := math.NewVec3(-s, 0, c)
			dr := bottomRadius - topRadius
			bitangent := math.NewVec3(dr*c, -height, dr*s)
			n := tangent.Cross(bitangent).Normalized()

			md.Vertices = append(md.Vertices, vertex(r*c, y, r*s, n.X, n.Y, n.Z,
				float32(j)/float32(sliceCount), 1-float32(i)/float32(stackCount)))
		}
	}

	ring := sliceCount + 1
	for i := 0; i < stackCount; i++ {
		for j := 0; j < sliceCount; j++ {
			md.Indices = append(md.Indices,
				uint16(i*ring+j),
				uint16((i+1)*ring+j),
				uint16((i+1)*ring+j+1),

				uint16(i*ring+j),
				uint16((i+1)*ring+j+1),
				uint16(i*ring+j+1),
			)
		}
	}

	md.appendCap(topRadius, 0.5*height, height, sliceCount, true)
	md.appendCap(bottomRadius, -0.5*height, height, sliceCount, false)
	return md
}

func (md *MeshData) appendCap(radius, y, height float32, sliceCount int, top bool) {
	base := len(md.Vertices)
	ny := float32(-1)
	if top {
		ny = 1
	}
	dTheta := math.K_PI_2 / float32(sliceCount)
	for i := 0; i <= sliceCount; i++ {
		x := radius * math.Cos(float32(i)*dTheta)
		z := radius * math.Sin(float32(i)*dTheta)
		md.Vertices = append(md.Vertices, vertex(x, y, z, 0, ny, 0, x/height+0.5, z/height+0.5))
	}
	md.Vertices = append(md.Vertices, vertex(0, y, 0, 0, ny, 0, 0.5, 0.5))
	center := len(md.Vertices) - 1

	for i := 0; i < sliceCount; i++ {
		if top {
			md.Indices = append(md.Indices, uint16(center), uint16(base+i+1), uint16(base+i))
		} else {
			md.Indices = append(md.Indices, uint16(center), uint16(base+i), uint16(base+i+1))
		}
	}
}
