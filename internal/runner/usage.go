package runner

import (
	"github.com/shirou/gopsutil/v4/process"
)

// usageSampler tracks peak resident memory and running average CPU for a
// child process. Sampling failures are ignored; the process is racing us
// to exit.
type usageSampler struct {
	proc    *process.Process
	peakRSS uint64
	cpuSum  float64
	samples int
}

func newUsageSampler(pid int) *usageSampler {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return &usageSampler{}
	}
	return &usageSampler{proc: p}
}

func (u *usageSampler) sample() {
	if u.proc == nil {
		return
	}
	if mem, err := u.proc.MemoryInfo(); err == nil && mem != nil && mem.RSS > u.peakRSS {
		u.peakRSS = mem.RSS
	}
	if pct, err := u.proc.CPUPercent(); err == nil {
		u.cpuSum += pct
		u.samples++
	}
}

func (u *usageSampler) sampled() bool {
	return u.samples > 0 || u.peakRSS > 0
}

func (u *usageSampler) PeakRSS() uint64 {
	return u.peakRSS
}

func (u *usageSampler) AvgCPU() float64 {
	if u.samples == 0 {
		return 0
	}
	return u.cpuSum / float64(u.samples)
}
