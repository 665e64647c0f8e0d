package util

// ProgressMeter prints carriage-return style progress updates for a
// frame loop. Its methods have the signatures the rmsd and rmsf run
// options expect, so a meter can be handed to them directly.
type ProgressMeter struct{}

func NewProgressMeter() *ProgressMeter {
	return &ProgressMeter{}
}

// EchoRMSD reports one processed RMSD frame.
func (p *ProgressMeter) EchoRMSD(frame, total int, rmsd float64) {
	if FlagQuiet {
		return
	}
	Verbosef("\rRMSD %7.3f at frame %5d/%d  [%5.1f%%]",
		rmsd, frame, total, 100*float64(frame+1)/float64(total))
}

// Echo reports done of total frames processed.
func (p *ProgressMeter) Echo(done, total int) {
	if FlagQuiet {
		return
	}
	Verbosef("\r%d of %d frames processed  [%5.1f%%]",
		done, total, 100*float64(done)/float64(total))
}

// Close terminates the progress line.
func (p *ProgressMeter) Close() {
	if !FlagQuiet {
		Verbosef("\n")
	}
}
