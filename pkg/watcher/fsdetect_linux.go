//go:build linux

package watcher

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Statfs magic numbers from linux/magic.h.
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517b
	cifsSuperMagic = 0xff534d42
	smb2SuperMagic = 0xfe534d42
	fuseSuperMagic = 0x65735546
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

	switch uint32(st.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, cifsSuperMagic, smb2SuperMagic:
		return FSTypeSMB
	case fuseSuperMagic:
		return FSTypeFUSE
	default:
		return FSTypeLocal
	}
}
