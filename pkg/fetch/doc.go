// Package fetch reaches the systems being observed: plain and
// authenticated HTTP status pages, remote commands over SSH, and raw
// TCP reachability probes.
//
// Every failure is wrapped in one of a small set of sentinel errors
// (ErrConnection, ErrAuth, ErrTimeout) so collectors can log a stable
// category without inspecting transport details. Classify maps any
// error, including parse failures from downstream packages, to its
// category name.
package fetch
