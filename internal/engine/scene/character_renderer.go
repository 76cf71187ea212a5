package scene

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/mosslight/walkabout/internal/engine/scene/shaders"
	"github.com/mosslight/walkabout/internal/engine/shader"
	"github.com/mosslight/walkabout/pkg/formats"
	"github.com/mosslight/walkabout/pkg/math"
)

// MaxBones is the bone palette size in the skinning shaders. Models
// with more bones than this cannot be drawn.
const MaxBones = 64

// CharacterRenderer draws the skinned character mesh, deforming it on
// the GPU from the bone palette computed each frame.
type CharacterRenderer struct {
	program *shader.Program

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	texture     uint32
	ownsTexture bool
}

// NewCharacterRenderer compiles the skinning shader.
func NewCharacterRenderer() (*CharacterRenderer, error) {
	program, err := shader.NewProgram(shaders.CharacterVertex, shaders.CharacterFragment)
	if err != nil {
		return nil, fmt.Errorf("character shader: %w", err)
	}
	return &CharacterRenderer{program: program}, nil
}

// Upload replaces the character mesh on the GPU. The vertex layout is
// uploaded interleaved exactly as parsed.
func (cr *CharacterRenderer) Upload(model *formats.SKM) {
	cr.clearMesh()
	if len(model.Vertices) == 0 || len(model.Indices) == 0 {
		return
	}
	cr.indexCount = int32(len(model.Indices))

	gl.GenVertexArrays(1, &cr.vao)
	gl.BindVertexArray(cr.vao)

	gl.GenBuffers(1, &cr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, cr.vbo)
	vertexSize := int(unsafe.Sizeof(formats.SKMVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(model.Vertices)*vertexSize, unsafe.Pointer(&model.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	// Bone indices (location 3), kept integer for palette lookup
	gl.VertexAttribIPointerWithOffset(3, 4, gl.UNSIGNED_BYTE, int32(vertexSize), 8*4)
	gl.EnableVertexAttribArray(3)

	// Bone weights (location 4)
	gl.VertexAttribPointerWithOffset(4, 4, gl.FLOAT, false, int32(vertexSize), 9*4)
	gl.EnableVertexAttribArray(4)

	gl.GenBuffers(1, &cr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, cr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(model.Indices)*4, unsafe.Pointer(&model.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
}

// SetTexture replaces the character texture. A nil image makes the
// renderer use the given fallback texture instead.
func (cr *CharacterRenderer) SetTexture(img *image.RGBA, fallback uint32) {
	if cr.ownsTexture && cr.texture != 0 {
		gl.DeleteTextures(1, &cr.texture)
	}
	if img == nil {
		cr.texture = fallback
		cr.ownsTexture = false
		return
	}
	cr.texture = uploadTexture(img)
	cr.ownsTexture = true
}

// Ready reports whether a mesh has been uploaded.
func (cr *CharacterRenderer) Ready() bool {
	return cr.vao != 0
}

// Render draws the character for the main pass.
func (cr *CharacterRenderer) Render(view viewState, model math.Mat4, palette []math.Mat4) {
	if cr.vao == 0 || len(palette) == 0 {
		return
	}

	p := cr.program
	p.Use()
	p.SetMat4("uModel", model)
	p.SetMat4("uViewProj", view.viewProj)
	p.SetMat4("uLightViewProj", view.lightViewProj)
	p.SetMat4Slice("uBones", palette)
	p.SetVec3("uCameraPos", view.cameraPos)

	p.SetVec3("uLightDir", view.env.Sun.Direction())
	p.SetVec3("uLightColor", view.env.Sun.Color.Scale(view.env.Sun.Intensity))
	p.SetVec3("uAmbient", view.env.Ambient)
	p.SetVec3("uSkyColor", view.env.Hemisphere.SkyColor)
	p.SetVec3("uGroundColor", view.env.Hemisphere.GroundColor)
	p.SetFloat("uHemisphere", view.env.Hemisphere.Intensity)

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
	gl.BindTexture(gl.TEXTURE_2D, cr.texture)
	p.SetInt("uTexture", 0)

	gl.BindVertexArray(cr.vao)
	gl.DrawElements(gl.TRIANGLES, cr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// RenderDepth draws the character for the shadow pass using the skinned
// depth program.
func (cr *CharacterRenderer) RenderDepth(depth *shader.Program, lightViewProj, model math.Mat4, palette []math.Mat4) {
	if cr.vao == 0 || len(palette) == 0 {
		return
	}
	depth.Use()
	depth.SetMat4("uLightViewProj", lightViewProj)
	depth.SetMat4("uModel", model)
	depth.SetMat4Slice("uBones", palette)

	gl.BindVertexArray(cr.vao)
	gl.DrawElements(gl.TRIANGLES, cr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (cr *CharacterRenderer) clearMesh() {
	if cr.vao != 0 {
		gl.DeleteVertexArrays(1, &cr.vao)
		cr.vao = 0
	}
	if cr.vbo != 0 {
		gl.DeleteBuffers(1, &cr.vbo)
		cr.vbo = 0
	}
	if cr.ebo != 0 {
		gl.DeleteBuffers(1, &cr.ebo)
		cr.ebo = 0
	}
	cr.indexCount = 0
}

// Destroy releases all resources.
func (cr *CharacterRenderer) Destroy() {
	cr.clearMesh()
	if cr.ownsTexture && cr.texture != 0 {
		gl.DeleteTextures(1, &cr.texture)
		cr.texture = 0
	}
	if cr.program != nil {
		cr.program.Delete()
	}
}
