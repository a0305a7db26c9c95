package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// vertexShaderSrc places a fullscreen quad, scaled by the aspect uniform
// computed in aspect.go, and passes through plane UVs unmodified — Y, U
// and V are all sampled at the same coordinate, the fragment shader does
// the chroma upsampling implicitly via the linear sampler.
const vertexShaderSrc = `
#version 410 core
layout(location = 0) in vec2 aPos;
layout(location = 1) in vec2 aUV;
uniform vec2 scale;
out vec2 vUV;
void main() {
	vUV = aUV;
	gl_Position = vec4(aPos * scale, 0.0, 1.0);
}
` + "\x00"

// fragmentShaderSrc implements BT.601 full-range YUV -> RGB exactly as
// specified: three single-channel R8 textures, linear-filtered.
const fragmentShaderSrc = `
#version 410 core
in vec2 vUV;
out vec4 fragColor;
uniform sampler2D texY;
uniform sampler2D texU;
uniform sampler2D texV;
void main() {
	float y = texture(texY, vUV).r;
	float u = texture(texU, vUV).r - 0.5;
	float v = texture(texV, vUV).r - 0.5;
	float r = clamp(y + 1.402 * v, 0.0, 1.0);
	float g = clamp(y - 0.344136 * u - 0.714136 * v, 0.0, 1.0);
	float b = clamp(y + 1.772 * u, 0.0, 1.0);
	fragColor = vec4(r, g, b, 1.0);
}
` + "\x00"

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logMsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logMsg))
		return 0, fmt.Errorf("compile shader: %s", logMsg)
	}
	return shader, nil
}

func newProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logMsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logMsg))
		return 0, fmt.Errorf("link program: %s", logMsg)
	}
	return program, nil
}
