package parameter

// Density image
const (
	ImageWidth  = 1000
	ImageHeight = 1000

	// ImageScale and ImageOffset map world to pixel: px = int(x·scale) + offset
	// Centers world (500, 500) in a 1000px image
	ImageScale  = 1.2
	ImageOffset = -100

	// DensityWeight is accumulated per particle per pixel
	DensityWeight = 100.0

	// DefaultPalette is the log blue/green map
	DefaultPalette = "log"
)

// Output naming
const (
	OutputPrefix  = "out/image"
	OutputPad     = 5
	OutputSuffix  = ".bmp"
	ManifestName  = "manifest.yaml"
	OutputDirPerm = 0o755
)
