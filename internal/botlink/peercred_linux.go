//go:build linux

package botlink

import (
	"net"

	"golang.org/x/sys/unix"
)

func peerCredentials(conn net.Conn) (peerCred, bool) {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return peerCred{}, false
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return peerCred{}, false
	}
	var (
		ucred  *unix.Ucred
		optErr error
	)
	if err := raw.Control(func(fd uintptr) {
		ucred, optErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil || optErr != nil || ucred == nil {
		return peerCred{}, false
	}
	return peerCred{PID: ucred.Pid, UID: ucred.Uid}, true
}
