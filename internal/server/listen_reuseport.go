//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package server

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

func listenConfig(reusePort bool) *net.ListenConfig {
	lc := new(net.ListenConfig)
	if reusePort {
		lc.Control = func(network, address string, rc syscall.RawConn) error {
			var opterr error
			err := rc.Control(func(fd uintptr) {
				opterr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if err != nil {
				return err
			}
			return opterr
		}
	}
	return lc
}
