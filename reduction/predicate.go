package reduction

import "github.com/go-gl/mathgl/mgl64"

// Infringement thresholds, bit-exact per the feature's magic constants.
const (
	// edgePresenceCoefficient scales DistanceThreshold to decide whether a
	// contact is considered "touching" a given edge plane at all.
	edgePresenceCoefficient = -1e-2

	// strictInfringeEpsilon is the threshold at least one touched edge must
	// clear for the contact to count as infringing.
	strictInfringeEpsilon = 1e-6

	// lenientInfringeEpsilon is the threshold every touched edge must clear,
	// looser than strictInfringeEpsilon so a normal parallel to a secondary
	// edge of a fan does not escape blocking.
	lenientInfringeEpsilon = -1e-2
)

// shouldBlockNormal decides whether mesh-space contact (p, m) infringes
// triangle t's face: a spurious internal-edge artifact that t should block.
func shouldBlockNormal(t *testTriangle, p, m mgl64.Vec3) bool {
	var d [4]float64
	for lane := 0; lane < 4; lane++ {
		dx := p.X() - t.anchorX[lane]
		dy := p.Y() - t.anchorY[lane]
		dz := p.Z() - t.anchorZ[lane]
		d[lane] = dx*t.normalX[lane] + dy*t.normalY[lane] + dz*t.normalZ[lane]
	}

	for lane := 0; lane < 4; lane++ {
		if d[lane] > t.DistanceThreshold {
			return false
		}
	}

	negThr := t.DistanceThreshold * edgePresenceCoefficient
	onAB := d[1] >= negThr
	onBC := d[2] >= negThr
	onCA := d[3] >= negThr

	if !onAB && !onBC && !onCA {
		// Strictly interior: a disagreeing normal is always corrective.
		return true
	}

	ndAB := m.X()*t.normalX[1] + m.Y()*t.normalY[1] + m.Z()*t.normalZ[1]
	ndBC := m.X()*t.normalX[2] + m.Y()*t.normalY[2] + m.Z()*t.normalZ[2]
	ndCA := m.X()*t.normalX[3] + m.Y()*t.normalY[3] + m.Z()*t.normalZ[3]

	strictlyInfringed := (onAB && ndAB > strictInfringeEpsilon) ||
		(onBC && ndBC > strictInfringeEpsilon) ||
		(onCA && ndCA > strictInfringeEpsilon)

	everyTouchedNearInfringed := (!onAB || ndAB > lenientInfringeEpsilon) &&
		(!onBC || ndBC > lenientInfringeEpsilon) &&
		(!onCA || ndCA > lenientInfringeEpsilon)

	return strictlyInfringed && everyTouchedNearInfringed
}
