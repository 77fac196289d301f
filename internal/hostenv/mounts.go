// Package hostenv inspects the host for conditions that affect where a
// downloaded installer can usefully be placed, currently noexec mounts on
// Linux.
package hostenv

import (
	"path/filepath"
	"strings"
)

type mount struct {
	point string
	opts  map[string]struct{}
}

func (m mount) noexec() bool {
	_, ok := m.opts["noexec"]
	return ok
}

// parseMountinfo reads /proc/self/mountinfo content. Per the kernel docs the
// line is: id parent major:minor root mountpoint options ... "-" fstype
// source superopts; flags can appear in either options column.
func parseMountinfo(content string) []mount {
	var out []mount
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 6 {
			continue
		}
		sep := -1
		for i, f := range fields {
			if f == "-" {
				sep = i
				break
			}
		}
		if sep < 0 {
			continue
		}

		m := mount{point: unescapePath(fields[4]), opts: splitOptions(fields[5])}
		if sep+3 < len(fields) {
			for k := range splitOptions(fields[sep+3]) {
				m.opts[k] = struct{}{}
			}
		}
		out = append(out, m)
	}
	return out
}

// parseProcMounts reads the older /proc/mounts format: source mountpoint
// fstype options dump pass.
func parseProcMounts(content string) []mount {
	var out []mount
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 4 {
			continue
		}
		out = append(out, mount{point: unescapePath(fields[1]), opts: splitOptions(fields[3])})
	}
	return out
}

func splitOptions(raw string) map[string]struct{} {
	opts := make(map[string]struct{})
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			opts[o] = struct{}{}
		}
	}
	return opts
}

// Procfs encodes whitespace and backslashes in mount paths as octal escapes.
func unescapePath(p string) string {
	return strings.NewReplacer(
		`\040`, " ",
		`\011`, "\t",
		`\012`, "\n",
		`\134`, `\`,
	).Replace(p)
}

// noexecFor reports whether path falls under a noexec mount. The deepest
// mount point containing the path wins, so an exec bind mount inside a
// noexec tree is honored.
func noexecFor(path string, mounts []mount) bool {
	target := filepath.ToSlash(filepath.Clean(path))
	if target == "" || target == "." {
		return false
	}

	deepest := -1
	result := false
	for _, m := range mounts {
		point := filepath.ToSlash(filepath.Clean(m.point))
		if point == "" || point == "." || !underMount(target, point) {
			continue
		}
		if len(point) > deepest {
			deepest = len(point)
			result = m.noexec()
		}
	}
	return result
}

func underMount(path, point string) bool {
	if point == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == point || strings.HasPrefix(path, point+"/")
}
