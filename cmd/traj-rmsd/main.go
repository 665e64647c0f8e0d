// traj-rmsd computes superposition RMSDs from plain-text coordinate
// files (one whitespace-delimited "x y z" row per atom, frames
// separated by blank lines).
//
// With two single-frame files it prints the one RMSD between them.
// When the first file holds several frames it is treated as a mobile
// trajectory: every frame is superposed onto the reference set and one
// "index time rmsd" row is printed per frame.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/umarbrowser/mdanalysis/cmd/util"
	"github.com/umarbrowser/mdanalysis/rmsd"
	"github.com/umarbrowser/mdanalysis/traj"
)

var (
	flagCenter  = false
	flagWeights = ""
	flagDt      = 1.0
)

func init() {
	flag.BoolVar(&flagCenter, "center", flagCenter,
		"When set, each coordinate set is centered on its (weighted)\n"+
			"centroid before the superposition. Trajectory mode always\n"+
			"centers.")
	flag.StringVar(&flagWeights, "weights", flagWeights,
		"A file with one weight (e.g. an atomic mass) per line, one\n"+
			"line per atom. In trajectory mode the weights become the\n"+
			"atom masses and the fit is mass weighted.")
	flag.Float64Var(&flagDt, "dt", flagDt,
		"The time between consecutive trajectory frames.")
	util.FlagUse("verbose", "quiet", "progress")
	util.FlagParse("mobile-file reference-file", "")
	util.AssertNArg(2)
}

func main() {
	mobile := util.ReadFrames(util.Arg(0))
	ref := util.ReadCoords(util.Arg(1))
	if len(mobile[0]) != len(ref) {
		util.Fatalf("'%s' has %d atoms but '%s' has %d; the sets must "+
			"be of equal length.", util.Arg(0), len(mobile[0]),
			util.Arg(1), len(ref))
	}

	var weights []float64
	if flagWeights != "" {
		weights = util.ReadWeights(flagWeights)
		if len(weights) != len(ref) {
			util.Fatalf("'%s' has %d weights for %d atoms.",
				flagWeights, len(weights), len(ref))
		}
	}

	if len(mobile) == 1 {
		r, err := rmsd.RMSD(ref, mobile[0], weights, flagCenter)
		util.Assert(err, "Could not compute RMSD")
		fmt.Println(r)
		return
	}

	timeseries(mobile, ref, weights)
}

// timeseries superposes every mobile frame onto the reference set and
// prints one row per frame.
func timeseries(mobile [][]traj.Coords, ref []traj.Coords, weights []float64) {
	atoms := make([]traj.Atom, len(ref))
	for i := range atoms {
		atoms[i] = traj.Atom{Name: fmt.Sprintf("A%d", i), Mass: 1}
		if weights != nil {
			atoms[i].Mass = weights[i]
		}
	}

	u, err := traj.NewMemUniverse(atoms, mobile, flagDt)
	util.Assert(err, "Could not build trajectory from '%s'", util.Arg(0))
	refU, err := traj.NewMemUniverse(atoms, [][]traj.Coords{ref}, flagDt)
	util.Assert(err, "Could not build reference from '%s'", util.Arg(1))

	meter := util.NewProgressMeter()
	defer meter.Close()

	a, err := rmsd.New(u, refU, rmsd.Options{
		MassWeighted:     weights != nil,
		Progress:         meter.EchoRMSD,
		ProgressInterval: util.FlagProgress,
	})
	util.Assert(err, "Could not configure the analysis")
	util.Assert(a.Run(rmsd.RunOptions{}), "Could not compute RMSDs")
	util.Assert(rmsd.WriteTimeseries(os.Stdout, a.Timeseries()),
		"Could not write the timeseries")
}
