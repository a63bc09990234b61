package models

import (
	"encoding/hex"
	"fmt"
	"github.com/zeebo/blake3"
	"io"
	"os"
)

// FileState describes a watched file at the moment it fired.
type FileState struct {
	Path     string
	Digest   string
	Size     int64
	Modified int64
	Uid      uint32
	Gid      uint32
	Mode     uint32
}

// Describe stats path and fingerprints its contents. Digest stays empty for anything
// but a regular file.
func Describe(path string) (FileState, error) {
	state, regular, err := statFile(path)
	if err != nil {
		return FileState{}, err
	}

	if regular {
		state.Digest, err = digest(path)
		if err != nil {
			return FileState{}, err
		}
	}

	return state, nil
}

func digest(path string) (sum string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	h := blake3.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s after %d bytes: %w", path, n, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
