package library

// Speeds is the playback rate cycle advanced by the speed control
var Speeds = []float64{1.0, 1.25, 1.5, 1.75, 2.0}

// NextSpeedIndex returns the index after i, wrapping to the start
func NextSpeedIndex(i int) int {
	if i < 0 || i >= len(Speeds)-1 {
		return 0
	}
	return i + 1
}
