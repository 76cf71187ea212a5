package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/mosslight/walkabout/pkg/math"
)

// Program wraps a linked shader program with cached uniform locations.
type Program struct {
	ID uint32

	uniforms map[string]int32
}

// NewProgram compiles and links a shader program.
func NewProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := link(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{
		ID:       id,
		uniforms: make(map[string]int32),
	}, nil
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Delete releases the program object.
func (p *Program) Delete() {
	gl.DeleteProgram(p.ID)
	p.ID = 0
}

// uniform resolves a uniform location, caching the lookup. Unknown
// names resolve to -1, which GL ignores on upload.
func (p *Program) uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a matrix uniform.
func (p *Program) SetMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(p.uniform(name), 1, false, &m[0])
}

// SetMat4Slice uploads a matrix array uniform, such as a bone palette.
func (p *Program) SetMat4Slice(name string, ms []math.Mat4) {
	if len(ms) == 0 {
		return
	}
	gl.UniformMatrix4fv(p.uniform(name), int32(len(ms)), false, &ms[0][0])
}

// SetVec3 uploads a vec3 uniform.
func (p *Program) SetVec3(name string, v math.Vec3) {
	gl.Uniform3f(p.uniform(name), v.X, v.Y, v.Z)
}

// SetVec2 uploads a vec2 uniform.
func (p *Program) SetVec2(name string, v math.Vec2) {
	gl.Uniform2f(p.uniform(name), v.X, v.Y)
}

// SetFloat uploads a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.uniform(name), v)
}

// SetInt uploads an int uniform, also used for sampler bindings.
func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.uniform(name), v)
}

// SetBool uploads a bool uniform as an int.
func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(p.uniform(name), i)
}
