package scenegraph

// Appearance nodes describe how geometry is shaded. They produce no
// geometry themselves; the discretizer rejects them with an empty result.

// Material is a classic ambient/diffuse/specular appearance.
type Material struct {
	GeometryBase
	Ambient      [3]float64
	Diffuse      float64
	Specular     [3]float64
	Emission     [3]float64
	Shininess    float64
	Transparency float64
}

// NewMaterial returns a material with neutral defaults.
func NewMaterial() *Material {
	return &Material{
		GeometryBase: NewGeometryBase(),
		Ambient:      [3]float64{0.8, 0.8, 0.8},
		Diffuse:      1,
		Shininess:    1,
	}
}

// ImageTexture references a texture image by path.
type ImageTexture struct {
	GeometryBase
	Filename string
	Mipmap   bool
}

// NewImageTexture returns a texture appearance for the given file.
func NewImageTexture(filename string) *ImageTexture {
	return &ImageTexture{GeometryBase: NewGeometryBase(), Filename: filename}
}

// MonoSpectral describes reflectance/transmittance with single coefficients.
type MonoSpectral struct {
	GeometryBase
	Reflectance   float64
	Transmittance float64
}

// NewMonoSpectral returns a mono-spectral appearance.
func NewMonoSpectral(reflectance, transmittance float64) *MonoSpectral {
	return &MonoSpectral{GeometryBase: NewGeometryBase(), Reflectance: reflectance, Transmittance: transmittance}
}

// MultiSpectral describes reflectance/transmittance per wavelength band.
type MultiSpectral struct {
	GeometryBase
	Reflectance   []float64
	Transmittance []float64
}

// NewMultiSpectral returns a multi-spectral appearance.
func NewMultiSpectral(reflectance, transmittance []float64) *MultiSpectral {
	return &MultiSpectral{GeometryBase: NewGeometryBase(), Reflectance: reflectance, Transmittance: transmittance}
}

// Text is a screen-space label. Font rendering is owned by external
// components, so the discretizer produces nothing for it.
type Text struct {
	GeometryBase
	String   string
	Position [3]float64
	FontStyle *Font
}

// NewText returns a text node.
func NewText(s string) *Text {
	return &Text{GeometryBase: NewGeometryBase(), String: s}
}

// Font selects a typeface for Text nodes.
type Font struct {
	GeometryBase
	Family string
	Size   int
	Bold   bool
	Italic bool
}

// NewFont returns a font node.
func NewFont(family string, size int) *Font {
	return &Font{GeometryBase: NewGeometryBase(), Family: family, Size: size}
}
