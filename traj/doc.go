/*
Package traj defines the trajectory and atom-group abstractions consumed
by the rmsd and rmsf analyses, along with an in-memory implementation
suitable for tests and small data sets.

A Trajectory has a single "current frame" cursor. Seeking to a frame
loads its coordinates into a buffer owned by the trajectory; the buffer
is overwritten by the next seek, so positions that must survive a seek
have to be copied first.
*/
package traj
