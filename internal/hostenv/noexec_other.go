//go:build !linux

package hostenv

// IsNoExecMount is a no-op outside Linux.
func IsNoExecMount(dir string) bool { return false }
