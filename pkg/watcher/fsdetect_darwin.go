//go:build darwin

package watcher

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

func detectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	p := path
	for {
		if err := unix.Statfs(p, &st); err == nil {
			break
		}
		parent := filepath.Dir(p)
		if parent == p {
			return FSTypeUnknown
		}
		p = parent
	}

	name := strings.ToLower(unix.ByteSliceToString(st.Fstypename[:]))
	switch {
	case name == "nfs":
		return FSTypeNFS
	case name == "smbfs" || name == "cifs":
		return FSTypeSMB
	case strings.Contains(name, "sshfs"):
		return FSTypeSSHFS
	case strings.Contains(name, "fuse"):
		return FSTypeFUSE
	default:
		return FSTypeLocal
	}
}
