// Package scenegraph defines the parametric geometry node hierarchy and the
// explicit-model containers produced by discretization. Parametric nodes
// (spheres, sweeps, patches) describe shapes by their parameters and
// sampling callbacks; explicit models carry points and face indices.
package scenegraph
