//go:build darwin || freebsd || linux || netbsd || openbsd

package models

import (
	"fmt"
	"golang.org/x/sys/unix"
)

const (
	S_IFMT  = 0o0170000
	S_IFREG = 0o0100000
)

func statFile(path string) (FileState, bool, error) {
	var stat unix.Stat_t

	err := unix.Stat(path, &stat)
	if err != nil {
		return FileState{}, false, fmt.Errorf("failed to stat path: %w", err)
	}

	modified, _ := stat.Mtim.Unix()

	state := FileState{
		Path:     path,
		Size:     stat.Size,
		Modified: modified,
		Uid:      stat.Uid,
		Gid:      stat.Gid,
		Mode:     uint32(stat.Mode),
	}

	return state, uint32(stat.Mode)&S_IFMT == S_IFREG, nil
}
