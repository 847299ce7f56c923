package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Disk 本地目录存储
type Disk struct {
	root string
}

var _ Store = (*Disk)(nil)

// NewDisk 创建磁盘存储，root 及 media 子目录不存在时自动创建
func NewDisk(root string) (*Disk, error) {
	if root == "" {
		return nil, errors.New("upload dir is required")
	}
	if err := os.MkdirAll(filepath.Join(root, MediaDir), 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{root: root}, nil
}

// Root 根目录
func (d *Disk) Root() string {
	return d.root
}

func (d *Disk) Save(ctx context.Context, dir string, upload *Upload) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	filename := GenerateFilename(upload.Name)
	publicPath := PublicPath(dir, filename)
	key, err := KeyFromPublicPath(publicPath)
	if err != nil {
		return Stored{}, err
	}

	target := d.file(key)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Stored{}, fmt.Errorf("create dir: %w", err)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return Stored{}, fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, upload.Body); err != nil {
		f.Close()
		os.Remove(target)
		return Stored{}, fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return Stored{}, fmt.Errorf("close %s: %w", key, err)
	}

	return Stored{Filename: filename, Path: publicPath}, nil
}

func (d *Disk) Open(_ context.Context, publicPath string) (io.ReadCloser, error) {
	key, err := KeyFromPublicPath(publicPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, ErrNotExist
	}
	return f, nil
}

func (d *Disk) Exists(_ context.Context, publicPath string) (bool, error) {
	key, err := KeyFromPublicPath(publicPath)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (d *Disk) Remove(_ context.Context, publicPath string) error {
	key, err := KeyFromPublicPath(publicPath)
	if err != nil {
		return err
	}
	err = os.Remove(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (d *Disk) file(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}
