//go:build !linux

package core

func platformCPUCount() int {
	return 0
}
