package volume

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
)

// Image is a FAT file system inside a disk image, served as an fs.FS.
type Image struct {
	disk *disk.Disk
	fs   filesystem.FileSystem
}

var _ fs.ReadDirFS = (*Image)(nil)

// OpenImage opens the image at path read only.
func OpenImage(path string, partition int) (*Image, error) {
	d, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, err
	}
	fsys, err := d.GetFilesystem(partition)
	if err != nil {
		d.File.Close()
		return nil, err
	}
	return &Image{disk: d, fs: fsys}, nil
}

func (m *Image) Close() error {
	return m.disk.File.Close()
}

func abs(name string) string {
	if name == "." {
		return "/"
	}
	return "/" + name
}

// readDir lists a directory without the "." and ".." entries.
func (m *Image) readDir(name string) ([]os.FileInfo, error) {
	infos, err := m.fs.ReadDir(abs(name))
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(infos, func(fi os.FileInfo) bool {
		return fi.Name() == "." || fi.Name() == ".."
	}), nil
}

// stat looks name up in its parent directory.  FAT names compare case
// insensitively.
func (m *Image) stat(name string) (fs.FileInfo, error) {
	if name == "." {
		return rootInfo{}, nil
	}
	infos, err := m.readDir(path.Dir(name))
	if err != nil {
		return nil, fs.ErrNotExist
	}
	base := path.Base(name)
	for _, fi := range infos {
		if strings.EqualFold(fi.Name(), base) {
			return fi, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (m *Image) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	fi, err := m.stat(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if fi.IsDir() {
		infos, err := m.readDir(name)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &openDir{info: fi, name: name, files: infos}, nil
	}
	f, err := m.fs.OpenFile(abs(name), os.O_RDONLY)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &openFile{File: f, info: fi}, nil
}

func (m *Image) ReadDir(name string) ([]fs.DirEntry, error) {
	f, err := m.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, ok := f.(*openDir)
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}
	return d.ReadDir(-1)
}

type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0555 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }

// An openFile is a regular file open for reading.
type openFile struct {
	filesystem.File
	info fs.FileInfo
}

func (f *openFile) Stat() (fs.FileInfo, error) { return f.info, nil }

// An openDir is a directory open for reading.
type openDir struct {
	info   fs.FileInfo
	name   string
	files  []os.FileInfo
	offset int
}

func (d *openDir) Close() error               { return nil }
func (d *openDir) Stat() (fs.FileInfo, error) { return d.info, nil }

func (d *openDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: errors.New("is a directory")}
}

func (d *openDir) ReadDir(count int) ([]fs.DirEntry, error) {
	n := len(d.files) - d.offset
	if n == 0 {
		if count <= 0 {
			return nil, nil
		}
		return nil, io.EOF
	}
	if count > 0 && n > count {
		n = count
	}
	list := make([]fs.DirEntry, n)
	for i := range list {
		list[i] = fs.FileInfoToDirEntry(d.files[d.offset+i])
	}
	d.offset += n
	return list, nil
}
