//go:build !windows

package core

import "strings"

func isHidden(_ string, name string) bool {
	return strings.HasPrefix(name, ".")
}
