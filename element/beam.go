package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Beam is a two-node Euler-Bernoulli beam with axial and St. Venant torsion
// stiffness (12 DOFs).
//
//	local DOFs: [u1 v1 w1 θx1 θy1 θz1  u2 v2 w2 θx2 θy2 θz2]
//
//	  y
//	  ^
//	  |
//	 (1)------------------------(2)---> x
//	 ,'
//	z
//
// Length, frame and all matrices are derived once from the node coordinates at
// construction. Nodes never move afterwards, so the cache cannot go stale.
type Beam struct {
	n1, n2 *Node
	props  *BeamProperties

	length float64
	frame  Frame

	kl *mat.SymDense // local stiffness [12][12]
	t  *mat.Dense    // global-to-local transformation [12][12]
	kg *mat.SymDense // global stiffness Tᵀ·Kl·T
}

// NewBeam derives the beam geometry and stiffness matrices.
func NewBeam(n1, n2 *Node, props *BeamProperties, o Orientation) (*Beam, error) {
	if n1 == nil || n2 == nil {
		return nil, fmt.Errorf("%w: beam needs two nodes", ErrUnknownNode)
	}
	if props == nil {
		return nil, fmt.Errorf("%w: beam %d-%d has no properties", ErrInvalidInput, n1.ID(), n2.ID())
	}
	length, dir, err := geometry(n1, n2)
	if err != nil {
		return nil, err
	}
	if o.IsZero() {
		o = DefaultOrientation()
	}
	frame, ok := NewFrame(dir, o)
	if !ok {
		return nil, fmt.Errorf("%w: beam %d-%d is parallel to both orientation vectors",
			ErrInvalidInput, n1.ID(), n2.ID())
	}
	b := &Beam{n1: n1, n2: n2, props: props, length: length, frame: frame}
	b.kl = b.localStiffness()
	b.t = b.transformation()
	b.kg = b.globalStiffness()
	return b, nil
}

// geometry returns the length and unit direction from n1 to n2.
func geometry(n1, n2 *Node) (length float64, dir r3.Vec, err error) {
	x1, x2 := n1.Coords(), n2.Coords()
	delta := r3.Sub(x2, x1)
	length = r3.Norm(delta)
	scale := math.Max(1, math.Max(r3.Norm(x1), r3.Norm(x2)))
	if length <= 1e-12*scale {
		err = fmt.Errorf("%w: nodes %d and %d coincide", ErrDegenerateGeometry, n1.ID(), n2.ID())
		return
	}
	dir = r3.Scale(1/length, delta)
	return
}

func (b *Beam) Kind() Kind                  { return KindBeam }
func (b *Beam) Name() string                { return fmt.Sprintf("beam %d-%d", b.n1.ID(), b.n2.ID()) }
func (b *Beam) Nodes() []*Node              { return []*Node{b.n1, b.n2} }
func (b *Beam) Properties() *BeamProperties { return b.props }
func (b *Beam) Length() float64             { return b.length }
func (b *Beam) Frame() Frame                { return b.frame }

// Direction returns the unit vector from node1 to node2.
func (b *Beam) Direction() r3.Vec { return b.frame.X }

func (b *Beam) DOFs() []int { return pairDOFs(b.n1, b.n2) }

// LocalStiffness returns the 12×12 stiffness in local axes.
func (b *Beam) LocalStiffness() mat.Symmetric { return b.kl }

// Transformation returns the block-diagonal 12×12 rotation T with u_local = T·u_global.
func (b *Beam) Transformation() mat.Matrix { return b.t }

func (b *Beam) GlobalStiffness() mat.Symmetric { return b.kg }

func (b *Beam) localStiffness() *mat.SymDense {
	var (
		p        = b.props
		l        = b.length
		ll       = l * l
		lll      = ll * l
		ea, gj   = p.E() * p.A(), p.G() * p.J()
		eiy, eiz = p.E() * p.Iy(), p.E() * p.Iz()
		k        = mat.NewSymDense(12, nil)
	)

	// axial
	k.SetSym(0, 0, ea/l)
	k.SetSym(6, 6, ea/l)
	k.SetSym(0, 6, -ea/l)

	// torsion
	k.SetSym(3, 3, gj/l)
	k.SetSym(9, 9, gj/l)
	k.SetSym(3, 9, -gj/l)

	// bending in the x-y plane (v, θz) about local z
	k.SetSym(1, 1, 12*eiz/lll)
	k.SetSym(7, 7, 12*eiz/lll)
	k.SetSym(1, 7, -12*eiz/lll)
	k.SetSym(1, 5, 6*eiz/ll)
	k.SetSym(1, 11, 6*eiz/ll)
	k.SetSym(5, 7, -6*eiz/ll)
	k.SetSym(7, 11, -6*eiz/ll)
	k.SetSym(5, 5, 4*eiz/l)
	k.SetSym(11, 11, 4*eiz/l)
	k.SetSym(5, 11, 2*eiz/l)

	// bending in the x-z plane (w, θy) about local y
	k.SetSym(2, 2, 12*eiy/lll)
	k.SetSym(8, 8, 12*eiy/lll)
	k.SetSym(2, 8, -12*eiy/lll)
	k.SetSym(2, 4, -6*eiy/ll)
	k.SetSym(2, 10, -6*eiy/ll)
	k.SetSym(4, 8, 6*eiy/ll)
	k.SetSym(8, 10, 6*eiy/ll)
	k.SetSym(4, 4, 4*eiy/l)
	k.SetSym(10, 10, 4*eiy/l)
	k.SetSym(4, 10, 2*eiy/l)
	return k
}

// transformation repeats Λ in the four 3×3 diagonal blocks
// [translations 1, rotations 1, translations 2, rotations 2].
func (b *Beam) transformation() *mat.Dense {
	t := mat.NewDense(12, 12, nil)
	lambda := b.frame.Rotation()
	for blk := 0; blk < 4; blk++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t.Set(3*blk+i, 3*blk+j, lambda[i][j])
			}
		}
	}
	return t
}

func (b *Beam) globalStiffness() *mat.SymDense {
	var kt, ttkt mat.Dense
	kt.Mul(b.kl, b.t)
	ttkt.Mul(b.t.T(), &kt)
	kg := mat.NewSymDense(12, nil)
	for i := 0; i < 12; i++ {
		for j := i; j < 12; j++ {
			kg.SetSym(i, j, 0.5*(ttkt.At(i, j)+ttkt.At(j, i)))
		}
	}
	return kg
}

// InternalForces returns the local end forces K_local·T·u_e for the element
// displacements picked from the full displacement vector u.
//
//	f = [N1 Vy1 Vz1 T1 My1 Mz1  N2 Vy2 Vz2 T2 My2 Mz2]
func (b *Beam) InternalForces(u []float64) ([]float64, error) {
	dofs := b.DOFs()
	ue := mat.NewVecDense(12, nil)
	for i, I := range dofs {
		if I >= len(u) {
			return nil, fmt.Errorf("%w: displacement vector has %d entries, %s needs DOF %d",
				ErrInvalidInput, len(u), b.Name(), I)
		}
		ue.SetVec(i, u[I])
	}
	var ul, f mat.VecDense
	ul.MulVec(b.t, ue)
	f.MulVec(b.kl, &ul)
	return f.RawVector().Data, nil
}

// Stresses holds stress components recovered at node1 of a beam.
//
// Section resultants are the negated end-1 nodal forces, N = -f[0], T = -f[3],
// My = -f[4] and Mz = -f[5], so a tensile bar has positive Axial. Every
// component therefore has the opposite sign of the same formulas evaluated
// with the raw end-1 forces f[0], f[3], f[4] and f[5].
type Stresses struct {
	Axial    float64 // N/A, tension positive
	BendingY float64 // -Mz·cy/Iz
	BendingZ float64 // My·cz/Iy
	Torsion  float64 // T·ct/J
	Combined float64 // sqrt(BendingY² + BendingZ²), axial excluded

	// MaxNormal is |Axial| + |BendingY| + |BendingZ|, the extreme fibre normal stress
	MaxNormal float64
}

// Stresses evaluates stresses at node1 from the local end forces f returned by
// InternalForces. Section resultants use the internal force convention, the
// negated end-1 nodal forces, so a tensile bar has positive Axial.
func (b *Beam) Stresses(f []float64, c Fibres) (Stresses, error) {
	if len(f) != 12 {
		return Stresses{}, fmt.Errorf("%w: force vector must have 12 entries, got %d", ErrInvalidInput, len(f))
	}
	p := b.props
	n, tor, my, mz := -f[0], -f[3], -f[4], -f[5]
	s := Stresses{
		Axial:    n / p.A(),
		BendingY: -mz * c.Cy / p.Iz(),
		BendingZ: my * c.Cz / p.Iy(),
		Torsion:  tor * c.Ct / p.J(),
	}
	s.Combined = math.Hypot(s.BendingY, s.BendingZ)
	s.MaxNormal = math.Abs(s.Axial) + math.Abs(s.BendingY) + math.Abs(s.BendingZ)
	return s, nil
}
