// Package timing measures runs and segments from the event stream.
//
// A RunRecord is the ordered list of objective splits between two events.
// Durations of many runs aggregate into minimum, average and rolling
// average, and a new duration is classified against the best one with a
// fixed tolerance band that absorbs polling jitter.
package timing
