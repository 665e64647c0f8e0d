// traj-rmsf computes per-atom root-mean-square fluctuations over a
// multi-frame plain-text coordinate file (one "x y z" row per atom,
// frames separated by blank lines) and prints one RMSF per line in
// atom order.
package main

import (
	"flag"
	"fmt"

	"github.com/umarbrowser/mdanalysis/cmd/util"
	"github.com/umarbrowser/mdanalysis/rmsf"
	"github.com/umarbrowser/mdanalysis/traj"
)

var (
	flagStart = 0
	flagStop  = 0
	flagStep  = 1
	flagDt    = 1.0
)

func init() {
	flag.IntVar(&flagStart, "start", flagStart,
		"The first frame to include.")
	flag.IntVar(&flagStop, "stop", flagStop,
		"The frame to stop before; 0 means the end of the trajectory.")
	flag.IntVar(&flagStep, "step", flagStep,
		"The stride between included frames.")
	flag.Float64Var(&flagDt, "dt", flagDt,
		"The time between consecutive frames.")
	util.FlagUse("verbose", "quiet", "progress")
	util.FlagParse("frames-file", "")
	util.AssertNArg(1)
}

func main() {
	frames := util.ReadFrames(util.Arg(0))

	// The file format carries no atom metadata; unit masses are fine
	// since RMSF applies no mass weighting.
	atoms := make([]traj.Atom, len(frames[0]))
	for i := range atoms {
		atoms[i] = traj.Atom{Name: fmt.Sprintf("A%d", i), Mass: 1}
	}
	u, err := traj.NewMemUniverse(atoms, frames, flagDt)
	util.Assert(err, "Could not build trajectory from '%s'", util.Arg(0))

	group, err := u.SelectAtoms("all")
	util.Assert(err)

	meter := util.NewProgressMeter()
	defer meter.Close()

	r := rmsf.New(u.Trajectory(), group)
	err = r.Run(rmsf.RunOptions{
		Start:    flagStart,
		Stop:     flagStop,
		Step:     flagStep,
		Interval: util.FlagProgress,
		Quiet:    util.FlagQuiet,
		Progress: meter.Echo,
	})
	util.Assert(err, "Could not compute RMSF")

	for _, v := range r.RMSF() {
		fmt.Println(v)
	}
}
