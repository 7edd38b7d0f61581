package parameter

// Initial conditions
const (
	// ParticleCount is the default population
	ParticleCount = 100000

	// ParticleMass is the mass assigned to every generated particle
	ParticleMass = 1.0

	// WorldSize is the edge of the square [0, WorldSize)² the generators fill
	WorldSize = 1000.0

	// InitSeed seeds the generator RNG; 0 means derive from wall clock
	InitSeed = 1

	// PerlinAlpha, PerlinBeta, PerlinOctaves shape the clustered distribution
	PerlinAlpha   = 2.0
	PerlinBeta    = 2.0
	PerlinOctaves = 3

	// PerlinScale is world units per noise period
	PerlinScale = 250.0
)
