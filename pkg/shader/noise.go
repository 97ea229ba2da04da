package shader

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
	trylock "github.com/subchen/go-trylock/v2"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// DefaultLockTimeout bounds how long a sample waits for its field.
const DefaultLockTimeout = 5 * time.Millisecond

// NoiseKind selects the generator behind a Field.
type NoiseKind int

const (
	NoiseSimplex NoiseKind = iota // OpenSimplex
	NoisePerlin                   // Classic Perlin
	NoiseRidged                   // Ridged multifractal over simplex
	NoiseFBM                      // Fractal Brownian motion over simplex
)

// String returns the noise kind name.
func (k NoiseKind) String() string {
	switch k {
	case NoiseSimplex:
		return "simplex"
	case NoisePerlin:
		return "perlin"
	case NoiseRidged:
		return "ridged"
	case NoiseFBM:
		return "fbm"
	default:
		return fmt.Sprintf("NoiseKind(%d)", int(k))
	}
}

const (
	fractalOctaves    = 5
	fractalLacunarity = 2.0
	fractalGain       = 0.5

	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
)

// sampler evaluates raw 3D noise, roughly in [-1, 1].
type sampler interface {
	eval(x, y, z float64) float64
}

type simplexSampler struct{ n opensimplex.Noise }

func (s simplexSampler) eval(x, y, z float64) float64 { return s.n.Eval3(x, y, z) }

type perlinSampler struct{ p *perlin.Perlin }

// Perlin output sits well inside [-1, 1]; scale it up to match simplex.
func (s perlinSampler) eval(x, y, z float64) float64 { return 1.5 * s.p.Noise3D(x, y, z) }

type fbmSampler struct{ n opensimplex.Noise }

func (s fbmSampler) eval(x, y, z float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for range fractalOctaves {
		sum += amp * s.n.Eval3(x*freq, y*freq, z*freq)
		norm += amp
		amp *= fractalGain
		freq *= fractalLacunarity
	}
	return sum / norm
}

type ridgedSampler struct{ n opensimplex.Noise }

func (s ridgedSampler) eval(x, y, z float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for range fractalOctaves {
		r := 1 - math.Abs(s.n.Eval3(x*freq, y*freq, z*freq))
		sum += amp * r * r
		norm += amp
		amp *= fractalGain
		freq *= fractalLacunarity
	}
	// [0, 1] -> [-1, 1]
	return 2*sum/norm - 1
}

// Field is one coherent noise field. The generator is built on first use and
// every sample holds the field's lock; a sample that cannot get the lock in
// time returns 0 instead of blocking the frame.
type Field struct {
	Kind      NoiseKind
	Frequency float64
	Seed      int64

	timeout  time.Duration
	once     sync.Once
	gen      sampler
	lock     trylock.TryLocker
	timeouts atomic.Int64
}

// NewField creates a field. The generator itself is not built until the
// first Sample call.
func NewField(kind NoiseKind, frequency float64, seed int64, timeout time.Duration) *Field {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &Field{
		Kind:      kind,
		Frequency: frequency,
		Seed:      seed,
		timeout:   timeout,
		lock:      trylock.New(),
	}
}

func (f *Field) init() {
	switch f.Kind {
	case NoisePerlin:
		f.gen = perlinSampler{perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, f.Seed)}
	case NoiseRidged:
		f.gen = ridgedSampler{opensimplex.New(f.Seed)}
	case NoiseFBM:
		f.gen = fbmSampler{opensimplex.New(f.Seed)}
	default:
		f.gen = simplexSampler{opensimplex.New(f.Seed)}
	}
	render.Logger().Debug("noise field ready", "kind", f.Kind, "frequency", f.Frequency, "seed", f.Seed)
}

// Sample returns the noise value at p scaled by the field frequency,
// clamped to [-1, 1].
func (f *Field) Sample(p math3d.Vec3) float64 {
	f.once.Do(f.init)

	if !f.acquire() {
		if f.timeouts.Add(1) == 1 {
			render.Logger().Debug("noise field lock timeout", "kind", f.Kind, "frequency", f.Frequency)
		}
		return 0
	}
	v := f.gen.eval(p.X*f.Frequency, p.Y*f.Frequency, p.Z*f.Frequency)
	f.lock.Unlock()

	if math.IsNaN(v) {
		return 0
	}
	return max(-1, min(1, v))
}

// acquire takes the field lock, first without waiting and then for at most
// the field timeout.
func (f *Field) acquire() bool {
	// A nil context makes a single attempt.
	if f.lock.TryLock(nil) {
		return true
	}
	return f.lock.TryLockTimeout(f.timeout)
}

// Sample01 is Sample remapped to [0, 1].
func (f *Field) Sample01(p math3d.Vec3) float64 {
	return (f.Sample(p) + 1) / 2
}

// Timeouts returns how many samples gave up waiting for the lock.
func (f *Field) Timeouts() int64 {
	return f.timeouts.Load()
}
