package quantum

import (
	"math"
	"math/cmplx"
)

type gateKind int

const (
	gateH gateKind = iota
	gateRY
	gateRZ
	gateCX
	gateMeasure
)

type gate struct {
	kind   gateKind
	qubits []int
	theta  float64
}

// circuit is an ordered list of gates on n qubits. Qubit 0 is the least significant bit of
// a basis state index.
type circuit struct {
	n     int
	gates []gate
}

func newCircuit(n int) *circuit {
	return &circuit{n: n}
}

func (c *circuit) h(q int) {
	c.gates = append(c.gates, gate{kind: gateH, qubits: []int{q}})
}

func (c *circuit) ry(theta float64, q int) {
	c.gates = append(c.gates, gate{kind: gateRY, qubits: []int{q}, theta: theta})
}

func (c *circuit) rz(theta float64, q int) {
	c.gates = append(c.gates, gate{kind: gateRZ, qubits: []int{q}, theta: theta})
}

func (c *circuit) cx(ctrl, target int) {
	c.gates = append(c.gates, gate{kind: gateCX, qubits: []int{ctrl, target}})
}

func (c *circuit) measureAll() {
	for q := 0; q < c.n; q++ {
		c.gates = append(c.gates, gate{kind: gateMeasure, qubits: []int{q}})
	}
}

// depth is the length of the longest gate chain over any qubit, measurements included.
func (c *circuit) depth() int {
	level := make([]int, c.n)
	maxLevel := 0
	for _, g := range c.gates {
		l := 0
		for _, q := range g.qubits {
			l = max(l, level[q])
		}
		l++
		for _, q := range g.qubits {
			level[q] = l
		}
		maxLevel = max(maxLevel, l)
	}
	return maxLevel
}

// probabilities evolves |0...0> through the unitary part of the circuit and returns the
// probability of every basis state.
func (c *circuit) probabilities() []float64 {
	state := make([]complex128, 1<<c.n)
	state[0] = 1

	for _, g := range c.gates {
		switch g.kind {
		case gateH:
			s := complex(1/math.Sqrt2, 0)
			applySingle(state, g.qubits[0], [2][2]complex128{{s, s}, {s, -s}})
		case gateRY:
			cos, sin := complex(math.Cos(g.theta/2), 0), complex(math.Sin(g.theta/2), 0)
			applySingle(state, g.qubits[0], [2][2]complex128{{cos, -sin}, {sin, cos}})
		case gateRZ:
			applySingle(state, g.qubits[0], [2][2]complex128{
				{cmplx.Exp(complex(0, -g.theta/2)), 0},
				{0, cmplx.Exp(complex(0, g.theta/2))},
			})
		case gateCX:
			applyCX(state, g.qubits[0], g.qubits[1])
		}
	}

	probs := make([]float64, len(state))
	for i, amp := range state {
		probs[i] = real(amp)*real(amp) + imag(amp)*imag(amp)
	}
	return probs
}

func applySingle(state []complex128, q int, m [2][2]complex128) {
	bit := 1 << q
	for i := range state {
		if i&bit != 0 {
			continue
		}
		a, b := state[i], state[i|bit]
		state[i] = m[0][0]*a + m[0][1]*b
		state[i|bit] = m[1][0]*a + m[1][1]*b
	}
}

func applyCX(state []complex128, ctrl, target int) {
	cbit, tbit := 1<<ctrl, 1<<target
	for i := range state {
		if i&cbit != 0 && i&tbit == 0 {
			state[i], state[i|tbit] = state[i|tbit], state[i]
		}
	}
}
