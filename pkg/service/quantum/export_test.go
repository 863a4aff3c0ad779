package quantum

var (
	RotationAngles   = rotationAngles
	IsSuccess        = isSuccess
	Bitstring        = bitstring
	ModalAngle       = modalAngle
	YearAngle        = yearAngle
	TeamAngle        = teamAngle
	CompetitionAngle = competitionAngle
)

// CircuitDepth returns the depth of the circuit built for angles
func CircuitDepth(angles []float64) int {
	return buildCircuit(angles).depth()
}

// Probabilities returns the exact output distribution of the circuit built for angles
func Probabilities(angles []float64) []float64 {
	return buildCircuit(angles).probabilities()
}
