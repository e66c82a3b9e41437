//go:build linux

package core

import "golang.org/x/sys/unix"

func platformCPUCount() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0
	}
	return set.Count()
}
