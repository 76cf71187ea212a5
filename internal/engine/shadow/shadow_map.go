// Package shadow provides real-time shadow mapping for the sun light.
package shadow

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Map is a depth-only framebuffer the shadow pass renders into. The
// depth texture is set up for comparison sampling, so the lighting
// shaders bind it to a sampler2DShadow.
type Map struct {
	fbo        uint32
	depth      uint32
	resolution int32

	prevViewport [4]int32
}

// NewMap creates a shadow map. A resolution of 0 or less picks the
// default.
func NewMap(resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	sm := &Map{resolution: resolution}

	gl.GenFramebuffers(1, &sm.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)

	gl.GenTextures(1, &sm.depth)
	gl.BindTexture(gl.TEXTURE_2D, sm.depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24,
		resolution, resolution, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Samples outside the light frustum read the white border, meaning
	// fully lit rather than shadowed.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.depth, 0)

	// Depth-only target, no color buffer
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, fmt.Errorf("shadow framebuffer incomplete: status 0x%x", status)
	}

	return sm, nil
}

// Bind makes the shadow map the render target for the depth pass and
// switches to front-face culling, which cuts down on shadow acne.
func (sm *Map) Bind() {
	gl.GetIntegerv(gl.VIEWPORT, &sm.prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
	gl.Viewport(0, 0, sm.resolution, sm.resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// Unbind restores the default framebuffer, the saved viewport and
// back-face culling.
func (sm *Map) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(sm.prevViewport[0], sm.prevViewport[1], sm.prevViewport[2], sm.prevViewport[3])
	gl.CullFace(gl.BACK)
}

// BindTexture binds the depth texture to the given texture unit for
// sampling in the main pass.
func (sm *Map) BindTexture(unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D, sm.depth)
}

// Destroy releases the GL objects.
func (sm *Map) Destroy() {
	if sm.fbo != 0 {
		gl.DeleteFramebuffers(1, &sm.fbo)
		sm.fbo = 0
	}
	if sm.depth != 0 {
		gl.DeleteTextures(1, &sm.depth)
		sm.depth = 0
	}
}
