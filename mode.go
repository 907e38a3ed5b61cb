package aiofile

import (
	"os"
	"strings"
)

// parseMode maps an fopen-style mode to open(2) flags. A "b" anywhere in
// the mode is accepted and ignored.
//
// Append modes do not use O_APPEND: the handle positions itself at the end
// and issues positional writes, which O_APPEND would redirect.
func parseMode(mode string) (int, error) {
	switch strings.ReplaceAll(mode, "b", "") {
	case "r":
		return os.O_RDONLY, nil
	case "r+":
		return os.O_RDWR, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case "a", "c":
		return os.O_WRONLY | os.O_CREATE, nil
	case "a+", "c+":
		return os.O_RDWR | os.O_CREATE, nil
	case "x":
		return os.O_WRONLY | os.O_CREATE | os.O_EXCL, nil
	case "x+":
		return os.O_RDWR | os.O_CREATE | os.O_EXCL, nil
	default:
		return 0, &InvalidArgumentError{Name: "mode", Value: mode}
	}
}

func modeWritable(mode string) bool {
	return !strings.HasPrefix(mode, "r") || strings.Contains(mode, "+")
}

func modeAppend(mode string) bool {
	return strings.HasPrefix(mode, "a")
}
