package commands

import (
	"os"
)

// isStdinPiped returns true if our input is from a pipe
func isStdinPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return isPiped(fi)
}

func isPiped(fi os.FileInfo) bool {
	if fi == nil {
		return false
	}

	return fi.Mode()&os.ModeNamedPipe == os.ModeNamedPipe
}
