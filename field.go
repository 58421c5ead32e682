package ambience

import "math"

// --- Kage shader sources ---
// Both programs use //kage:unit pixels and compute their own normalized uv
// from the Resolution uniform with (0,0) at the bottom-left, matching the
// Pointer uniform. Output is premultiplied.

const backgroundShaderSrc = `//kage:unit pixels
package main

var Time float
var Resolution vec2
var Pointer vec2
var Color0 vec3
var Color1 vec3
var Color2 vec3
var Intensity float
var Hover float

func hash(p vec2) float {
	return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453123)
}

func noise(p vec2) float {
	i := floor(p)
	f := fract(p)
	a := hash(i)
	b := hash(i + vec2(1, 0))
	c := hash(i + vec2(0, 1))
	d := hash(i + vec2(1, 1))
	u := f * f * (3 - 2*f)
	return mix(a, b, u.x) + (c-a)*u.y*(1-u.x) + (d-b)*u.x*u.y
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	uv := (dst.xy - imageDstOrigin()) / Resolution
	uv.y = 1 - uv.y
	t := Time * 0.3

	n := noise(uv*2+vec2(t, t*0.7))*0.5 +
		noise(uv*4+vec2(t*0.5, -t*0.35))*0.3 +
		noise(uv*8+vec2(-t*0.25, t*0.2))*0.2
	n = n*2 - 1

	g1 := smoothstep(0, 1, uv.y+n*0.3)
	g2 := smoothstep(0, 1, length(uv-vec2(0.5))+n*0.2)
	c := mix(Color0, Color1, g1)
	c = mix(c, Color2, g2*0.5)

	breathe := sin(t*2)*0.05 + 0.95
	c *= breathe

	a := Intensity
	return vec4(c*a, a)
}
`

const distortionShaderSrc = `//kage:unit pixels
package main

var Time float
var Resolution vec2
var Pointer vec2
var Color0 vec3
var Hover float

func hash(p vec2) float {
	return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453123)
}

func noise(p vec2) float {
	i := floor(p)
	f := fract(p)
	a := hash(i)
	b := hash(i + vec2(1, 0))
	c := hash(i + vec2(0, 1))
	d := hash(i + vec2(1, 1))
	u := f * f * (3 - 2*f)
	return mix(a, b, u.x) + (c-a)*u.y*(1-u.x) + (d-b)*u.x*u.y
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	uv := (dst.xy - imageDstOrigin()) / Resolution
	uv.y = 1 - uv.y

	d := distance(uv, Pointer)
	ripple := sin(d*20-Time*8) * exp(-d*5)
	duv := uv + ripple*Hover*0.02 + noise(uv*5+Time*0.5)*0.02*Hover

	c := Color0
	c += noise(duv*10+Time) * 0.1 * Hover

	edge := smoothstep(0.3, 1, 1-distance(uv, vec2(0.5)))
	c += edge * Hover * 0.1

	a := 0.1 + Hover*0.4
	return vec4(clamp(c, 0, 1)*a, a)
}
`

// The functions below mirror the background program on the CPU. They back
// SampleField, which tests and screenshot tooling use to reason about the
// field without a GPU.

func fieldHash(x, y float64) float64 {
	v := math.Sin(x*12.9898+y*78.233) * 43758.5453123
	return v - math.Floor(v)
}

func fieldNoise(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	fx, fy := x-ix, y-iy
	a := fieldHash(ix, iy)
	b := fieldHash(ix+1, iy)
	c := fieldHash(ix, iy+1)
	d := fieldHash(ix+1, iy+1)
	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)
	return mix(a, b, ux) + (c-a)*uy*(1-ux) + (d-b)*ux*uy
}

// fieldOctaves combines three noise octaves weighted 0.5/0.3/0.2 and maps the
// result to [-1, 1].
func fieldOctaves(u, v, t float64) float64 {
	n := fieldNoise(u*2+t, v*2+t*0.7)*0.5 +
		fieldNoise(u*4+t*0.5, v*4-t*0.35)*0.3 +
		fieldNoise(u*8-t*0.25, v*8+t*0.2)*0.2
	return n*2 - 1
}

// Breathing returns the brightness multiplier at uniform time t, oscillating
// in [0.9, 1.0].
func Breathing(t float64) float64 {
	return math.Sin(t*0.3*2)*0.05 + 0.95
}

// SampleField evaluates the background program at normalized (u, v), with v
// increasing upward. The returned color is straight alpha.
func SampleField(un Uniforms, u, v float64) Color {
	t := un.Time * 0.3
	n := fieldOctaves(u, v, t)

	c0, c1, c2 := un.Colors[0], un.Colors[1], un.Colors[2]
	g1 := smoothstep(0, 1, v+n*0.3)
	g2 := smoothstep(0, 1, math.Hypot(u-0.5, v-0.5)+n*0.2)
	c := mixColor(c0, c1, g1)
	c = mixColor(c, c2, g2*0.5)

	br := Breathing(un.Time)
	return Color{R: c.R * br, G: c.G * br, B: c.B * br, A: un.Intensity}
}

func mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

func mixColor(a, b Color, t float64) Color {
	return Color{R: mix(a.R, b.R, t), G: mix(a.G, b.G, t), B: mix(a.B, b.B, t), A: mix(a.A, b.A, t)}
}

func smoothstep(e0, e1, x float64) float64 {
	t := (x - e0) / (e1 - e0)
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}
