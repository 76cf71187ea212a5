// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// TerrainVertex is the vertex shader for terrain rendering.
//
//go:embed terrain.vert
var TerrainVertex string

// TerrainFragment is the fragment shader for terrain rendering.
//
//go:embed terrain.frag
var TerrainFragment string

// CharacterVertex is the vertex shader for skinned character rendering.
//
//go:embed character.vert
var CharacterVertex string

// CharacterFragment is the fragment shader for skinned character rendering.
//
//go:embed character.frag
var CharacterFragment string

// DepthVertex is the vertex shader for the static shadow depth pass.
//
//go:embed depth.vert
var DepthVertex string

// DepthSkinnedVertex is the vertex shader for the skinned shadow depth pass.
//
//go:embed depth_skinned.vert
var DepthSkinnedVertex string

// DepthFragment is the fragment shader shared by both depth passes.
//
//go:embed depth.frag
var DepthFragment string
