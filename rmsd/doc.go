/*
Package rmsd computes the root-mean-square deviation between coordinate
sets after optimal rigid-body superposition, using Theobald's fast QCP
algorithm, and orchestrates the computation across the frames of a
trajectory.

The pure entry points are RMSD (optionally weighted and centered) and
RMSDRotation (pre-centered sets, rotation matrix on request). Kabsch
provides the classic SVD route to the same rotation. Analysis runs a
configured RMSD computation over a trajectory, with optional secondary
RMSDs for auxiliary group selections, and persists the resulting
timeseries as whitespace-delimited plain text.
*/
package rmsd
