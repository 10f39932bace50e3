package element

import (
	"fmt"
	"math"
	"sort"
)

// BeamProperties bundles the material and section constants of a prismatic beam.
// Values are immutable after construction and may be shared by many beams.
//
// Section axes follow the beam local frame: H is the depth measured along local y,
// B the width along local z. Iz resists bending in the local x-y plane, Iy in x-z.
type BeamProperties struct {
	name string

	e, g   float64 // Young's and shear modulus
	a      float64 // cross-sectional area
	iy, iz float64 // second moments of area about local y and z
	j      float64 // torsional constant, Iy + Iz

	// optional section metadata
	b, h float64 // width, height
	r    float64 // outer radius
	t    float64 // wall thickness

	fibres *Fibres // explicit stress recovery distances
}

// PropertyOption sets optional metadata on BeamProperties.
type PropertyOption func(*BeamProperties)

// WithName sets the key used by PropertyLibrary.
func WithName(name string) PropertyOption {
	return func(p *BeamProperties) { p.name = name }
}

// WithRectangle records the section width (local z) and height (local y).
func WithRectangle(b, h float64) PropertyOption {
	return func(p *BeamProperties) { p.b, p.h = b, h }
}

// WithRadius records the outer radius of a round section.
func WithRadius(r float64) PropertyOption {
	return func(p *BeamProperties) { p.r = r }
}

// WithThickness records the wall thickness of a hollow section.
func WithThickness(t float64) PropertyOption {
	return func(p *BeamProperties) { p.t = t }
}

// WithFibres sets the stress recovery distances directly, for sections
// described only by their constants.
func WithFibres(c Fibres) PropertyOption {
	return func(p *BeamProperties) { p.fibres = &c }
}

// NewBeamProperties validates the required constants and derives J = Iy + Iz.
func NewBeamProperties(e, g, a, iy, iz float64, opts ...PropertyOption) (*BeamProperties, error) {
	for _, v := range []struct {
		key string
		val float64
	}{{"E", e}, {"G", g}, {"A", a}, {"Iy", iy}, {"Iz", iz}} {
		if !(v.val > 0) || math.IsInf(v.val, 0) {
			return nil, fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidInput, v.key, v.val)
		}
	}
	p := &BeamProperties{e: e, g: g, a: a, iy: iy, iz: iz, j: iy + iz}
	for _, opt := range opts {
		opt(p)
	}
	for _, v := range []float64{p.b, p.h, p.r, p.t} {
		if v < 0 {
			return nil, fmt.Errorf("%w: section dimensions must not be negative", ErrInvalidInput)
		}
	}
	if c := p.fibres; c != nil && (c.Cy < 0 || c.Cz < 0 || c.Ct < 0) {
		return nil, fmt.Errorf("%w: fibre distances must not be negative", ErrInvalidInput)
	}
	return p, nil
}

func (p *BeamProperties) Name() string       { return p.name }
func (p *BeamProperties) E() float64         { return p.e }
func (p *BeamProperties) G() float64         { return p.g }
func (p *BeamProperties) A() float64         { return p.a }
func (p *BeamProperties) Iy() float64        { return p.iy }
func (p *BeamProperties) Iz() float64        { return p.iz }
func (p *BeamProperties) J() float64         { return p.j }
func (p *BeamProperties) Width() float64     { return p.b }
func (p *BeamProperties) Height() float64    { return p.h }
func (p *BeamProperties) Radius() float64    { return p.r }
func (p *BeamProperties) Thickness() float64 { return p.t }

// RectangularSection builds properties of a solid b×h rectangle.
func RectangularSection(e, g, b, h float64, opts ...PropertyOption) (*BeamProperties, error) {
	if !(b > 0 && h > 0) {
		return nil, fmt.Errorf("%w: rectangle needs b, h > 0 (b=%g h=%g)", ErrInvalidInput, b, h)
	}
	opts = append([]PropertyOption{WithRectangle(b, h)}, opts...)
	return NewBeamProperties(e, g, b*h, h*b*b*b/12, b*h*h*h/12, opts...)
}

// RectangularTubeSection builds properties of a hollow rectangle with wall thickness t.
func RectangularTubeSection(e, g, b, h, t float64, opts ...PropertyOption) (*BeamProperties, error) {
	if !(b > 0 && h > 0 && t > 0) || 2*t >= math.Min(b, h) {
		return nil, fmt.Errorf("%w: tube needs 0 < 2t < min(b, h) (b=%g h=%g t=%g)", ErrInvalidInput, b, h, t)
	}
	bi, hi := b-2*t, h-2*t
	a := b*h - bi*hi
	iy := (h*b*b*b - hi*bi*bi*bi) / 12
	iz := (b*h*h*h - bi*hi*hi*hi) / 12
	opts = append([]PropertyOption{WithRectangle(b, h), WithThickness(t)}, opts...)
	return NewBeamProperties(e, g, a, iy, iz, opts...)
}

// CircularSection builds properties of a solid round bar of radius r.
func CircularSection(e, g, r float64, opts ...PropertyOption) (*BeamProperties, error) {
	if !(r > 0) {
		return nil, fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidInput, r)
	}
	i := math.Pi * math.Pow(r, 4) / 4
	opts = append([]PropertyOption{WithRadius(r)}, opts...)
	return NewBeamProperties(e, g, math.Pi*r*r, i, i, opts...)
}

// CircularTubeSection builds properties of a pipe with outer radius r and wall t.
func CircularTubeSection(e, g, r, t float64, opts ...PropertyOption) (*BeamProperties, error) {
	if !(r > 0 && t > 0) || t >= r {
		return nil, fmt.Errorf("%w: pipe needs 0 < t < r (r=%g t=%g)", ErrInvalidInput, r, t)
	}
	ri := r - t
	i := math.Pi * (math.Pow(r, 4) - math.Pow(ri, 4)) / 4
	opts = append([]PropertyOption{WithRadius(r), WithThickness(t)}, opts...)
	return NewBeamProperties(e, g, math.Pi*(r*r-ri*ri), i, i, opts...)
}

// Fibres holds the extreme-fibre distances used for stress recovery.
type Fibres struct {
	Cy float64 // distance along local y, used with Mz
	Cz float64 // distance along local z, used with My
	Ct float64 // torsional radius
}

// DefaultFibres returns the distances set by WithFibres, or derives them from
// the section metadata. Rectangles use the half height for torsion as well.
func (p *BeamProperties) DefaultFibres() (Fibres, error) {
	switch {
	case p.fibres != nil:
		return *p.fibres, nil
	case p.r > 0:
		return Fibres{Cy: p.r, Cz: p.r, Ct: p.r}, nil
	case p.b > 0 && p.h > 0:
		return Fibres{Cy: p.h / 2, Cz: p.b / 2, Ct: p.h / 2}, nil
	}
	return Fibres{}, fmt.Errorf("%w: properties %q carry no section dimensions", ErrInvalidInput, p.name)
}

// PropertyLibrary stores named property sets.
type PropertyLibrary struct {
	byName map[string]*BeamProperties
}

// NewPropertyLibrary creates an empty library.
func NewPropertyLibrary() *PropertyLibrary {
	return &PropertyLibrary{byName: make(map[string]*BeamProperties)}
}

// Add registers p under its name. Names must be unique and non-empty.
func (pl *PropertyLibrary) Add(p *BeamProperties) error {
	if p == nil || p.name == "" {
		return fmt.Errorf("%w: library entries need a name", ErrInvalidInput)
	}
	if _, found := pl.byName[p.name]; found {
		return fmt.Errorf("%w: duplicate property name %q", ErrInvalidInput, p.name)
	}
	pl.byName[p.name] = p
	return nil
}

// Get returns the properties registered under name.
func (pl *PropertyLibrary) Get(name string) (*BeamProperties, error) {
	p, found := pl.byName[name]
	if !found {
		return nil, fmt.Errorf("%w: no property named %q", ErrInvalidInput, name)
	}
	return p, nil
}

// Names returns the registered names in sorted order.
func (pl *PropertyLibrary) Names() []string {
	names := make([]string, 0, len(pl.byName))
	for name := range pl.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
