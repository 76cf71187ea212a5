// Package scene renders the world: terrain and the skinned character,
// lit by the sun rig with an optional shadow depth pass, drawn into an
// offscreen framebuffer that is blitted to the window each frame.
package scene

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/mosslight/walkabout/internal/engine/scene/shaders"
	"github.com/mosslight/walkabout/internal/engine/shader"
	"github.com/mosslight/walkabout/internal/engine/terrain"
	"github.com/mosslight/walkabout/pkg/math"
)

// TerrainRenderer draws the heightfield mesh. Without a ground texture
// it falls back to a flat base color.
type TerrainRenderer struct {
	program *shader.Program

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	texture    uint32
	hasTexture bool
	baseColor  math.Vec3

	bounds terrain.Bounds
}

// NewTerrainRenderer compiles the terrain shader.
func NewTerrainRenderer() (*TerrainRenderer, error) {
	program, err := shader.NewProgram(shaders.TerrainVertex, shaders.TerrainFragment)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	return &TerrainRenderer{
		program:   program,
		baseColor: math.Vec3{X: 0.35, Y: 0.48, Z: 0.3},
	}, nil
}

// Upload replaces the terrain mesh on the GPU.
func (tr *TerrainRenderer) Upload(mesh *terrain.Mesh) {
	tr.clearMesh()
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return
	}
	tr.bounds = mesh.Bounds
	tr.indexCount = int32(len(mesh.Indices))

	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	gl.GenBuffers(1, &tr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &tr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
}

// SetTexture replaces the ground texture. A nil image drops back to the
// base color.
func (tr *TerrainRenderer) SetTexture(img *image.RGBA) {
	if tr.texture != 0 {
		gl.DeleteTextures(1, &tr.texture)
		tr.texture = 0
	}
	tr.hasTexture = false
	if img == nil {
		return
	}
	tr.texture = uploadTexture(img)
	tr.hasTexture = true
}

// SetBaseColor sets the untextured fallback color.
func (tr *TerrainRenderer) SetBaseColor(c math.Vec3) {
	tr.baseColor = c
}

// Bounds returns the AABB of the uploaded mesh.
func (tr *TerrainRenderer) Bounds() terrain.Bounds {
	return tr.bounds
}

// Ready reports whether a mesh has been uploaded.
func (tr *TerrainRenderer) Ready() bool {
	return tr.vao != 0
}

// Render draws the terrain for the main pass.
func (tr *TerrainRenderer) Render(view viewState) {
	if tr.vao == 0 {
		return
	}

	p := tr.program
	p.Use()
	p.SetMat4("uViewProj", view.viewProj)
	p.SetMat4("uLightViewProj", view.lightViewProj)
	p.SetVec3("uCameraPos", view.cameraPos)

	p.SetVec3("uLightDir", view.env.Sun.Direction())
	p.SetVec3("uLightColor", view.env.Sun.Color.Scale(view.env.Sun.Intensity))
	p.SetVec3("uAmbient", view.env.Ambient)
	p.SetVec3("uSkyColor", view.env.Hemisphere.SkyColor)
	p.SetVec3("uGroundColor", view.env.Hemisphere.GroundColor)
	p.SetFloat("uHemisphere", view.env.Hemisphere.Intensity)

	p.SetBool("uUseTexture", tr.hasTexture)
	p.SetVec3("uBaseColor", tr.baseColor)

	p.SetBool("uFogEnabled", view.fogOn)
	if view.fogOn {
		p.SetFloat("uFogNear", view.fogNear)
		p.SetFloat("uFogFar", view.fogFar)
		p.SetVec3("uFogColor", view.fogColor)
	}

	p.SetBool("uShadowsEnabled", view.shadowsOn)
	if view.shadowsOn && view.shadowMap != nil {
		view.shadowMap.BindTexture(gl.TEXTURE1)
		p.SetInt("uShadowMap", 1)
	}

	gl.ActiveTexture(gl.TEXTURE0)
	if tr.hasTexture {
		gl.BindTexture(gl.TEXTURE_2D, tr.texture)
	}
	p.SetInt("uTexture", 0)

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// RenderDepth draws the terrain geometry for the shadow pass. The depth
// program must already be bound with uLightViewProj and uModel set.
func (tr *TerrainRenderer) RenderDepth() {
	if tr.vao == 0 {
		return
	}
	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (tr *TerrainRenderer) clearMesh() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
		tr.vbo = 0
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
		tr.ebo = 0
	}
	tr.indexCount = 0
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clearMesh()
	if tr.texture != 0 {
		gl.DeleteTextures(1, &tr.texture)
		tr.texture = 0
	}
	if tr.program != nil {
		tr.program.Delete()
	}
}
