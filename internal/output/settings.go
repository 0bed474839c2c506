package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Settings configures where and how an export is written
type Settings struct {
	// Path is the export root directory, always "/"-terminated
	Path string
	// InternalLinksDomain prefixes deep links, e.g. "https://t.me/"
	InternalLinksDomain string
}

// NewSettings builds Settings for the directory dir
func NewSettings(dir, internalLinksDomain string) (Settings, error) {
	if dir == "" {
		return Settings{}, fmt.Errorf("output directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	path := filepath.ToSlash(abs)
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return Settings{Path: path, InternalLinksDomain: internalLinksDomain}, nil
}

// PathWithRelativePath joins the export root with a "/"-separated relative path
func (s Settings) PathWithRelativePath(relative string) string {
	return s.Path + relative
}
