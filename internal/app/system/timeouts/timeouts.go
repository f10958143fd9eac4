// Package timeouts centralizes the context deadlines handlers wrap
// around I/O. Ping covers health probes, Short a single indexed read
// (one profile-store probe), Medium list queries and signing calls,
// Long the proxied object streams.
package timeouts

import "time"

const (
	Ping   = 2 * time.Second
	Short  = 5 * time.Second
	Medium = 10 * time.Second
	Long   = 30 * time.Second
)
