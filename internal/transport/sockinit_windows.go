//go:build windows

package transport

import (
	"syscall"

	"github.com/pkg/errors"
)

const wsaVersion = 0x0202 // Winsock 2.2

func platformInitSockets() error {
	var data syscall.WSAData
	if err := syscall.WSAStartup(wsaVersion, &data); err != nil {
		return errors.Errorf("WSAStartup failed: %v", err)
	}
	return nil
}

func platformShutdownSockets() {
	_ = syscall.WSACleanup()
}
