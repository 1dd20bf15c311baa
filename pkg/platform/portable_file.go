package platform

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// anonymousPrefix starts the informational name of every anonymous file.
const anonymousPrefix = "stricklysoft-anon-"

func anonymousName() string {
	return anonymousPrefix + uuid.NewString()
}

func portableOpen(ctx context.Context, path string, mode OpenMode) (*File, error) {
	defer callstack.Enter(ctx, "portable.open").Exit()

	f, err := os.OpenFile(path, mode.flags(), 0o644)
	if err != nil {
		return nil, errors.WrapNative(ctx, err, "open %s", path)
	}
	return &File{f: f, name: path}, nil
}

// portableOpenAnonymous creates a temporary file and unlinks it at once,
// so the storage lives only as long as the handle.
func portableOpenAnonymous(ctx context.Context) (*File, error) {
	defer callstack.Enter(ctx, "portable.openAnonymous").Exit()

	name := anonymousName()
	f, err := os.OpenFile(filepath.Join(os.TempDir(), name),
		os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, errors.WrapNative(ctx, err, "create anonymous file %s", name)
	}
	if err := os.Remove(f.Name()); err != nil {
		_ = f.Close()
		return nil, errors.WrapNative(ctx, err, "unlink anonymous file %s", name)
	}
	return &File{f: f, name: name, anonymous: true}, nil
}

// portableFilePath resolves the name recorded at open time against the
// working directory.
func portableFilePath(ctx context.Context, f *File) (string, error) {
	defer callstack.Enter(ctx, "portable.filePath").Exit()

	p, err := filepath.Abs(f.name)
	if err != nil {
		return "", errors.WrapNative(ctx, err, "resolve %s", f.name)
	}
	return p, nil
}

func portableFileSize(ctx context.Context, f *File) (int64, error) {
	defer callstack.Enter(ctx, "portable.fileSize").Exit()

	info, err := f.f.Stat()
	if err != nil {
		return 0, errors.WrapNative(ctx, err, "stat %s", f.name)
	}
	return info.Size(), nil
}

func portableListDirectory(ctx context.Context, path string, fn func(DirEntry) error) error {
	defer callstack.Enter(ctx, "portable.listDirectory").Exit()

	entries, err := os.ReadDir(path)
	if err != nil {
		return errors.WrapNative(ctx, err, "list %s", path)
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			if os.IsNotExist(err) {
				continue
			}
			return errors.WrapNative(ctx, err, "stat %s", filepath.Join(path, e.Name()))
		}
		entry := DirEntry{
			Name:    e.Name(),
			IsDir:   e.IsDir(),
			Mode:    info.Mode(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if err := fn(entry); err != nil {
			return errors.Propagate(err)
		}
	}
	return nil
}
