// Package sim advances whole scenes.
//
// [Advance] is the pure tick: every particle is sampled against the same
// region snapshot, stepped, and has its new position appended to its trail.
// [Simulator] runs a scene for a fixed duration and collects frames and
// metrics. [World] is the interactive state driven once per display frame.
package sim
