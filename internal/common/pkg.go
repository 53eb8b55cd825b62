package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// SplitQualified splits "pkg/path.Name" into its package path and short name.
// Names without a package qualifier return an empty package path.
func SplitQualified(name string) (pkgPath, short string) {
	slash := strings.LastIndex(name, "/")

	dot := strings.LastIndex(name, ".")
	if dot <= slash {
		return "", name
	}

	return name[:dot], name[dot+1:]
}
