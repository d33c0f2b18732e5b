package watcher

// FilesystemType classifies the filesystem backing a watched path.
// Remote and userspace filesystems get polling instead of fsnotify,
// whose events are unreliable or absent there.
type FilesystemType int

const (
	FSTypeUnknown FilesystemType = iota
	FSTypeLocal
	FSTypeNFS
	FSTypeSMB
	FSTypeSSHFS
	FSTypeFUSE
)

func (t FilesystemType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeNFS:
		return "nfs"
	case FSTypeSMB:
		return "smb"
	case FSTypeSSHFS:
		return "sshfs"
	case FSTypeFUSE:
		return "fuse"
	default:
		return "unknown"
	}
}

// detectFilesystemTypeFunc is a seam for tests.
var detectFilesystemTypeFunc = detectFilesystemType

// DetectFilesystemType reports a best-effort classification for path.
// If the path does not exist, parent directories are probed instead.
func DetectFilesystemType(path string) FilesystemType {
	if path == "" {
		return FSTypeUnknown
	}
	return detectFilesystemTypeFunc(path)
}

func isRemoteFilesystem(t FilesystemType) bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeSSHFS, FSTypeFUSE:
		return true
	default:
		return false
	}
}
