package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/qrisq/qrisq/pkg/domain/model"
)

func TestQuantumMetadata(t *testing.T) {
	t.Run("in-process values", func(t *testing.T) {
		m := model.QuantumMetadata{
			model.MetaSimulator:      "statevector",
			model.MetaShots:          1024,
			model.MetaQubits:         8,
			model.MetaCircuitDepth:   9,
			model.MetaRotationAngles: map[string]float64{"modal": 2.7288},
		}

		gt.Value(t, m.Simulator()).Equal("statevector")
		shots, ok := m.Shots()
		gt.Bool(t, ok).True()
		gt.Value(t, shots).Equal(1024)
		depth, ok := m.CircuitDepth()
		gt.Bool(t, ok).True()
		gt.Value(t, depth).Equal(9)
		gt.Value(t, m.RotationAngles()["modal"]).Equal(2.7288)
	})

	t.Run("decoded values", func(t *testing.T) {
		var m model.QuantumMetadata
		raw := `{"simulator":"mock","shots":512,"n_qubits":4,"rotation_angles":{"sektor":1.5}}`
		gt.NoError(t, json.Unmarshal([]byte(raw), &m)).Required()

		qubits, ok := m.Qubits()
		gt.Bool(t, ok).True()
		gt.Value(t, qubits).Equal(4)
		gt.Value(t, m.RotationAngles()["sektor"]).Equal(1.5)
		gt.Value(t, m.Keys()).Equal([]string{"n_qubits", "rotation_angles", "shots", "simulator"})
	})

	t.Run("absent and malformed values", func(t *testing.T) {
		m := model.QuantumMetadata{model.MetaShots: 1.5, model.MetaSimulator: 42}

		_, ok := m.Shots()
		gt.Bool(t, ok).False()
		_, ok = m.CircuitDepth()
		gt.Bool(t, ok).False()
		gt.Value(t, m.Simulator()).Equal("")
		gt.Value(t, len(m.RotationAngles())).Equal(0)
	})
}
