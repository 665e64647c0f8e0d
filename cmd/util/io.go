package util

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/umarbrowser/mdanalysis/traj"
)

// ReadCoords reads one coordinate set from a plain-text file with one
// whitespace-delimited "x y z" row per atom. Blank lines and lines
// starting with '#' are skipped.
func ReadCoords(path string) []traj.Coords {
	frames := ReadFrames(path)
	if len(frames) != 1 {
		Fatalf("'%s' holds %d coordinate sets; expected exactly one.",
			path, len(frames))
	}
	return frames[0]
}

// ReadFrames reads a sequence of coordinate sets from a plain-text
// file: one "x y z" row per atom, frames separated by blank lines.
// Every frame must have the same number of atoms. Lines starting with
// '#' are skipped.
func ReadFrames(path string) [][]traj.Coords {
	f, err := os.Open(path)
	Assert(err, "Could not open '%s'", path)
	defer f.Close()

	var frames [][]traj.Coords
	var cur []traj.Coords
	sc := bufio.NewScanner(f)
	n := 1
	for ; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if len(cur) > 0 {
				frames = append(frames, cur)
				cur = nil
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			Fatalf("'%s' line %d: expected 3 coordinates, found %d.",
				path, n, len(fields))
		}
		var c traj.Coords
		for i, fl := range fields {
			c[i], err = strconv.ParseFloat(fl, 64)
			Assert(err, "'%s' line %d", path, n)
		}
		cur = append(cur, c)
	}
	Assert(sc.Err(), "Could not read '%s'", path)
	if len(cur) > 0 {
		frames = append(frames, cur)
	}
	if len(frames) == 0 {
		Fatalf("'%s' contains no coordinates.", path)
	}
	for i, fr := range frames[1:] {
		if len(fr) != len(frames[0]) {
			Fatalf("'%s': frame %d has %d atoms but frame 0 has %d.",
				path, i+1, len(fr), len(frames[0]))
		}
	}
	return frames
}

// ReadWeights reads one weight per line from a plain-text file. Blank
// lines and lines starting with '#' are skipped.
func ReadWeights(path string) []float64 {
	f, err := os.Open(path)
	Assert(err, "Could not open '%s'", path)
	defer f.Close()

	var ws []float64
	sc := bufio.NewScanner(f)
	n := 1
	for ; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w, err := strconv.ParseFloat(line, 64)
		Assert(err, "'%s' line %d", path, n)
		ws = append(ws, w)
	}
	Assert(sc.Err(), "Could not read '%s'", path)
	return ws
}
