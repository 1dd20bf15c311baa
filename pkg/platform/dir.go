package platform

import (
	"context"
	"io/fs"
	"time"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// DirEntry describes one entry of a directory listing.
type DirEntry struct {
	Name    string      `json:"name"`
	IsDir   bool        `json:"is_dir"`
	Mode    fs.FileMode `json:"mode"`
	Size    int64       `json:"size"`
	ModTime time.Time   `json:"mod_time"`
}

// ListDirectory calls fn for each entry of the directory at path, sorted
// by name. The "." and ".." entries are never reported. If fn returns an
// error, listing stops and that error is returned unchanged.
func ListDirectory(ctx context.Context, path string, fn func(DirEntry) error) error {
	defer callstack.Enter(ctx, "platform.ListDirectory").Exit()

	if path == "" {
		return errors.Fail(ctx, errors.KindInvalidParameter, "empty path")
	}
	if fn == nil {
		return errors.Fail(ctx, errors.KindInvalidParameter, "nil callback")
	}
	return osListDirectory(ctx, path, fn)
}
