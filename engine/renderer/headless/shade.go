package headless

import (
	"github.com/spaghettifunk/pendulum/engine/math"
)

// shade lights a fragment with every directional light of the bound common
// constants using the same Blinn-Phong model as basic.frag.
func shade(s *drawState, in varyings) [4]float32 {
	tex := s.texture.sample(in.uv.X, in.uv.Y)
	albedo := s.material.DiffuseAlbedo
	diffuse := [4]float32{tex[0] * albedo.X, tex[1] * albedo.Y, tex[2] * albedo.Z, tex[3] * albedo.W}

	n := in.normal.Normalized()
	toEye := s.common.EyePosW.Sub(in.posW).Normalized()
	shininess := 1 - s.material.Roughness
	r0 := s.material.FresnelR0

	ambient := s.common.AmbientLight
	out := [4]float32{ambient.X * diffuse[0], ambient.Y * diffuse[1], ambient.Z * diffuse[2], diffuse[3]}

	for i := range s.common.Lights {
		light := &s.common.Lights[i]
		if light.Strength == (math.Vec3{}) {
			continue
		}
		toLight := light.Direction.Negate()
		ndotl := max(toLight.Dot(n), 0)
		if ndotl == 0 {
			continue
		}
		strength := light.Strength.MulScalar(ndotl)
		spec := blinnPhong(toLight, n, toEye, r0, shininess)
		out[0] += (diffuse[0] + spec.X) * strength.X
		out[1] += (diffuse[1] + spec.Y) * strength.Y
		out[2] += (diffuse[2] + spec.Z) * strength.Z
	}
	return out
}

func blinnPhong(toLight, normal, toEye, r0 math.Vec3, shininess float32) math.Vec3 {
	m := shininess * 256
	halfVec := toEye.Add(toLight).Normalized()
	roughness := (m + 8) * math.Pow(max(halfVec.Dot(normal), 0), m) / 8
	fresnel := schlick(r0, halfVec, toLight)
	spec := fresnel.MulScalar(roughness)
	// keep specular in [0, 1] before it is added to the diffuse term
	return math.NewVec3(spec.X/(spec.X+1), spec.Y/(spec.Y+1), spec.Z/(spec.Z+1))
}

func schlick(r0, normal, toLight math.Vec3) math.Vec3 {
	cos := max(normal.Dot(toLight), 0)
	f0 := 1 - cos
	k := f0 * f0 * f0 * f0 * f0
	return r0.Add(math.NewVec3(1, 1, 1).Sub(r0).MulScalar(k))
}
