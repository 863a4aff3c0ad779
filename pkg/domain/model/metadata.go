package model

import (
	"encoding/json"
	"math"
	"sort"
)

// Well known quantum metadata keys.
const (
	MetaSimulator        = "simulator"
	MetaShots            = "shots"
	MetaQubits           = "n_qubits"
	MetaCircuitDepth     = "circuit_depth"
	MetaRotationAngles   = "rotation_angles"
	MetaExactProbability = "exact_success_probability"
)

// QuantumMetadata is an open ended description of the simulation run. Values built
// in-process are Go numbers; decoded ones are float64.
type QuantumMetadata map[string]any

// Simulator returns the simulator name, or "" when absent.
func (m QuantumMetadata) Simulator() string {
	s, _ := m[MetaSimulator].(string)
	return s
}

// Shots returns the number of shots and whether it was present.
func (m QuantumMetadata) Shots() (int, bool) {
	return intValue(m[MetaShots])
}

// Qubits returns the number of qubits and whether it was present.
func (m QuantumMetadata) Qubits() (int, bool) {
	return intValue(m[MetaQubits])
}

// CircuitDepth returns the circuit depth and whether it was present.
func (m QuantumMetadata) CircuitDepth() (int, bool) {
	return intValue(m[MetaCircuitDepth])
}

// RotationAngles returns the per-variable rotation angles in radians.
func (m QuantumMetadata) RotationAngles() map[string]float64 {
	angles := map[string]float64{}
	switch v := m[MetaRotationAngles].(type) {
	case map[string]float64:
		for k, a := range v {
			angles[k] = a
		}
	case map[string]any:
		for k, a := range v {
			if f, ok := floatValue(a); ok {
				angles[k] = f
			}
		}
	}
	return angles
}

// Keys returns the metadata keys in sorted order.
func (m QuantumMetadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
