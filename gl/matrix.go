package gl

import (
	"encoding/binary"
	"math"
)

// Matrix4 is a 4x4 float32 matrix stored column-major, the layout WGSL
// expects for a mat4x4<f32> uniform.
type Matrix4 [16]float32

// Identity returns the identity matrix.
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// OpenGLToWGPU remaps OpenGL clip-space depth [-1, 1] to the WGPU range
// [0, 1]. Compose it onto a legacy projection matrix before recording it
// with SetMatrix: proj = gl.OpenGLToWGPU.Mul(legacyProj).
var OpenGLToWGPU = Matrix4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Mul returns the product m * n (applying n first).
func (m Matrix4) Mul(n Matrix4) Matrix4 {
	var out Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * n[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// matrixUniformSize is the byte size of a mat4x4<f32> uniform.
const matrixUniformSize = 64

// Bytes serializes the matrix as 16 little-endian float32 words, ready
// for upload into a uniform buffer.
func (m Matrix4) Bytes() []byte {
	buf := make([]byte, matrixUniformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
