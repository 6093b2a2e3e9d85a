//go:build !linux

package mp

// Thread affinity is left to the OS scheduler on this platform.

func allowedCPUs() ([]int, error) { return nil, nil }

func pinThread(cpu int) error { return nil }

func threadID() (int, bool) { return 0, false }
