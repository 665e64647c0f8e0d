package traj

// Coords is the position of a single atom.
type Coords [3]float64

func (c Coords) Add(o Coords) Coords {
	return Coords{c[0] + o[0], c[1] + o[1], c[2] + o[2]}
}

func (c Coords) Sub(o Coords) Coords {
	return Coords{c[0] - o[0], c[1] - o[1], c[2] - o[2]}
}

func (c Coords) Scale(f float64) Coords {
	return Coords{c[0] * f, c[1] * f, c[2] * f}
}

// Centroid computes the weighted average position of ps. A nil weights
// slice computes the plain (unweighted) centroid. Weights need not be
// normalized; they must sum to something non-zero.
//
// Centroid of an empty slice is the origin.
func Centroid(ps []Coords, weights []float64) Coords {
	if len(ps) == 0 {
		return Coords{}
	}
	var c Coords
	if weights == nil {
		for _, p := range ps {
			c = c.Add(p)
		}
		return c.Scale(1 / float64(len(ps)))
	}
	var wsum float64
	for i, p := range ps {
		c = c.Add(p.Scale(weights[i]))
		wsum += weights[i]
	}
	return c.Scale(1 / wsum)
}
