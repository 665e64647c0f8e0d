package util_test

import (
	"testing"

	"github.com/umarbrowser/mdanalysis/cmd/util"
	"github.com/umarbrowser/mdanalysis/rmsd"
	"github.com/umarbrowser/mdanalysis/rmsf"
)

// The meter's methods must keep the signatures the analysis run
// options accept, so a meter can be handed to them directly.
func TestProgressMeterPlugsIntoRunOptions(t *testing.T) {
	m := util.NewProgressMeter()
	defer m.Close()

	var echoRMSD rmsd.ProgressFunc = m.EchoRMSD
	echoRMSD(0, 10, 1.5)

	opts := rmsf.RunOptions{Progress: m.Echo}
	opts.Progress(1, 10)
}
