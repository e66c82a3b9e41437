package core

import "runtime"

// HardwareConcurrency returns the number of CPUs this process may run on.
//
// On Linux it counts the CPUs in the scheduler affinity mask, so a process
// started under taskset or a cpuset cgroup sizes its pools to what it can
// actually use. Elsewhere, or if the query fails, it is runtime.NumCPU().
func HardwareConcurrency() int {
	if n := platformCPUCount(); n > 0 {
		return n
	}
	return runtime.NumCPU()
}
