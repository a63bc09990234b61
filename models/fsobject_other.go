//go:build !(darwin || freebsd || linux || netbsd || openbsd)

package models

import (
	"fmt"
	"os"
)

// No numeric owner ids here, Uid and Gid stay zero.
func statFile(path string) (FileState, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileState{}, false, fmt.Errorf("failed to stat path: %w", err)
	}

	state := FileState{
		Path:     path,
		Size:     info.Size(),
		Modified: info.ModTime().Unix(),
		Mode:     uint32(info.Mode()),
	}

	return state, info.Mode().IsRegular(), nil
}
