//go:build !unix

package watcher

import "os"

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	return f.Close()
}
