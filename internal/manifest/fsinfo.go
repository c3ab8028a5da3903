package manifest

// FSInfo links a manifest back to the file it was read from, for error messages.
type FSInfo struct {
	FilePath string
}

// NewFSInfo returns the FSInfo for filePath.
func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}
