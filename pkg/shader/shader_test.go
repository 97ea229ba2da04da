package shader

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

func samplePoints() []math3d.Vec3 {
	var pts []math3d.Vec3
	for i := range 40 {
		f := float64(i)
		pts = append(pts, math3d.V3(f*0.37-7, f*0.11-2, 3-f*0.23))
	}
	return pts
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if got, err := ParseKind("  Earth "); err != nil || got != Earth {
		t.Errorf("ParseKind is not case and space insensitive: %v, %v", got, err)
	}
	if _, err := ParseKind("plasma"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(plasma) err = %v", err)
	}
}

func TestFlat(t *testing.T) {
	f := render.Fragment{Color: render.RGB(200, 100, 50), Intensity: 0.5}
	if got := Flat(f, &render.Uniforms{}); got != render.RGB(100, 50, 25) {
		t.Errorf("Flat = %v, want (100, 50, 25)", got)
	}
}

func TestFieldSampleRange(t *testing.T) {
	for _, kind := range []NoiseKind{NoiseSimplex, NoisePerlin, NoiseRidged, NoiseFBM} {
		t.Run(kind.String(), func(t *testing.T) {
			f := NewField(kind, 1.7, 42, 0)
			varied := false
			first := f.Sample(samplePoints()[0])
			for _, p := range samplePoints() {
				v := f.Sample(p)
				if v < -1 || v > 1 {
					t.Fatalf("Sample(%v) = %v outside [-1, 1]", p, v)
				}
				if v != first {
					varied = true
				}
				if u := f.Sample01(p); u < 0 || u > 1 {
					t.Fatalf("Sample01(%v) = %v outside [0, 1]", p, u)
				}
			}
			if !varied {
				t.Error("field is constant")
			}
		})
	}
}

func TestFieldDeterministic(t *testing.T) {
	a := NewField(NoiseFBM, 2, 7, 0)
	b := NewField(NoiseFBM, 2, 7, 0)
	for _, p := range samplePoints() {
		if a.Sample(p) != b.Sample(p) {
			t.Fatalf("fields with equal seeds differ at %v", p)
		}
	}
}

func TestFieldLockTimeoutReturnsNeutral(t *testing.T) {
	f := NewField(NoiseSimplex, 1, 1, time.Millisecond)
	p := math3d.V3(0.3, 0.7, 0.1)
	want := f.Sample(p)

	f.lock.Lock()
	if got := f.Sample(p); got != 0 {
		t.Errorf("Sample while locked = %v, want 0", got)
	}
	f.lock.Unlock()

	if f.Timeouts() != 1 {
		t.Errorf("Timeouts = %d, want 1", f.Timeouts())
	}
	if got := f.Sample(p); got != want {
		t.Errorf("Sample after unlock = %v, want %v", got, want)
	}
}

func TestFieldUncontendedLockDoesNotWait(t *testing.T) {
	f := NewField(NoiseRidged, 2, 4, time.Nanosecond)
	for _, p := range samplePoints() {
		f.Sample(p)
	}
	if f.Timeouts() != 0 {
		t.Errorf("Timeouts = %d on a free lock", f.Timeouts())
	}
}

func TestFieldConcurrentSampling(t *testing.T) {
	f := NewField(NoisePerlin, 3, 9, time.Second)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range samplePoints() {
				f.Sample(p)
			}
		}()
	}
	wg.Wait()
	if f.Timeouts() != 0 {
		t.Errorf("Timeouts = %d with a generous timeout", f.Timeouts())
	}
}

func TestContextReusesFields(t *testing.T) {
	c := NewContext(1)
	a := c.Field(NoiseSimplex, 2, 0)
	b := c.Field(NoiseSimplex, 2, 0)
	if a != b {
		t.Error("same key returned different fields")
	}
	if c.Field(NoiseSimplex, 2, 1) == a {
		t.Error("different salt returned the same field")
	}
	if c.FieldCount() != 2 {
		t.Errorf("FieldCount = %d, want 2", c.FieldCount())
	}

	// Building a shader twice does not grow the cache.
	c.Shader(Earth)
	n := c.FieldCount()
	c.Shader(Earth)
	if c.FieldCount() != n {
		t.Errorf("FieldCount grew from %d to %d", n, c.FieldCount())
	}
}

func TestShadersNeverFullyDark(t *testing.T) {
	c := NewContext(3)
	u := &render.Uniforms{Time: 120}

	for _, k := range Kinds() {
		if k == Simple {
			continue
		}
		t.Run(k.String(), func(t *testing.T) {
			shade := c.Shader(k)
			for _, p := range samplePoints() {
				f := render.Fragment{
					Color:         render.ColorWhite,
					Intensity:     0,
					ModelPosition: p.Scale(0.1),
				}
				if got := shade(f, u); got.IsBlack() {
					t.Fatalf("unlit fragment at %v shaded black", f.ModelPosition)
				}
			}
		})
	}
}

func TestEmissiveShadersFollowIntensity(t *testing.T) {
	c := NewContext(5)
	u := &render.Uniforms{Time: 30}

	for _, k := range []Kind{Sun, Gargantua} {
		t.Run(k.String(), func(t *testing.T) {
			shade := c.Shader(k)
			for _, p := range samplePoints() {
				p = p.Scale(0.1)
				full := shade(render.Fragment{Intensity: 1, ModelPosition: p}, u)
				dark := shade(render.Fragment{Intensity: 0, ModelPosition: p}, u)
				if want := full.Scale(emissiveFloor); dark != want {
					t.Fatalf("unlit at %v = %v, want %v", p, dark, want)
				}
			}
		})
	}
}

func TestShadersDeterministic(t *testing.T) {
	a, b := NewContext(11), NewContext(11)
	u := &render.Uniforms{Time: 10}
	for _, k := range Kinds() {
		sa, sb := a.Shader(k), b.Shader(k)
		for _, p := range samplePoints() {
			f := render.Fragment{Color: render.ColorWhite, Intensity: 0.8, ModelPosition: p.Scale(0.2)}
			if sa(f, u) != sb(f, u) {
				t.Fatalf("%v: contexts with equal seeds differ at %v", k, p)
			}
		}
	}
}

func TestPalette(t *testing.T) {
	stops := []render.Color{render.ColorBlack, render.ColorWhite, render.ColorRed}
	tests := []struct {
		t    float64
		want render.Color
	}{
		{-1, render.ColorBlack},
		{0, render.ColorBlack},
		{0.5, render.ColorWhite},
		{1, render.ColorRed},
		{3, render.ColorRed},
		{0.25, render.RGB(127, 127, 127)},
	}
	for _, tc := range tests {
		if got := palette(stops, tc.t); got != tc.want {
			t.Errorf("palette(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func BenchmarkEarthShader(b *testing.B) {
	shade := NewContext(1).Shader(Earth)
	u := &render.Uniforms{Time: 1}
	f := render.Fragment{Color: render.ColorWhite, Intensity: 0.7, ModelPosition: math3d.V3(0.3, 0.2, 0.9)}

	for b.Loop() {
		_ = shade(f, u)
	}
}
