//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package server

import "net"

// SO_REUSEPORT is not available, the option is ignored.
func listenConfig(reusePort bool) *net.ListenConfig {
	return new(net.ListenConfig)
}
