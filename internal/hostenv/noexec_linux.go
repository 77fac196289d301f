//go:build linux

package hostenv

import "os"

// IsNoExecMount reports whether dir lives on a filesystem mounted noexec.
// Best effort only: any oddity reads as "not noexec".
func IsNoExecMount(dir string) bool {
	if dir == "" {
		return false
	}

	if data, err := os.ReadFile("/proc/self/mountinfo"); err == nil { // #nosec G304 -- fixed procfs path
		if mounts := parseMountinfo(string(data)); len(mounts) > 0 {
			return noexecFor(dir, mounts)
		}
	}

	data, err := os.ReadFile("/proc/mounts") // #nosec G304 -- fixed procfs path
	if err != nil {
		return false
	}
	return noexecFor(dir, parseProcMounts(string(data)))
}
