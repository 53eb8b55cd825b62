// Package host plays the role of the build host around the scheduler.
//
// It decides what is introspectable in each round: a declaration marked as
// generated by a mapper becomes visible only after that mapper has been
// emitted. It also collects resolved contracts per mapper and hands a mapper
// to the Emitter once every one of its contracts is resolved.
package host
