// Package shader compiles GLSL programs and wraps them with typed
// uniform setters.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// link compiles both stages and links them into a program object. The
// intermediate shader objects are deleted either way.
func link(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileStage(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileStage(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("linking program: %s", log)
	}

	return program, nil
}

func compileStage(source string, stage uint32, label string) (uint32, error) {
	shader := gl.CreateShader(stage)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := shaderLog(shader)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compiling %s shader: %s", label, log)
	}

	return shader, nil
}

func shaderLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return "no log"
	}
	buf := make([]byte, logLen)
	gl.GetShaderInfoLog(shader, logLen, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func programLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen <= 0 {
		return "no log"
	}
	buf := make([]byte, logLen)
	gl.GetProgramInfoLog(program, logLen, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}
