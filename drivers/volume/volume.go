// Package volume provides the file system playback reads its frames from: a
// plain directory or a FAT formatted disk image such as an EFI system
// partition.
package volume

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fbplay/fbplay/video/container"
)

// Volume is a read only file system.
type Volume struct {
	fs.FS
	closer io.Closer
	kind   string
}

// Open opens src, a directory or a disk image.  For images partition
// selects the partition holding the FAT file system, 0 meaning the image is
// not partitioned.
func Open(src string, partition int) (*Volume, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return &Volume{FS: os.DirFS(src), kind: "dir"}, nil
	}
	img, err := OpenImage(src, partition)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", src, err)
	}
	return &Volume{FS: img, closer: img, kind: "fat"}, nil
}

// Kind returns "dir" or "fat".
func (v *Volume) Kind() string { return v.kind }

// Clean turns a slash separated path as found in configuration files into a
// valid fs.FS path.
func Clean(name string) string {
	name = strings.Trim(strings.ReplaceAll(name, "\\", "/"), "/")
	if name == "" {
		return "."
	}
	return name
}

// ReadFile reads the whole file name.
func (v *Volume) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(v.FS, Clean(name))
}

// Records opens name for streaming its records.  The returned closer
// releases the file.
func (v *Volume) Records(name string) (*container.Reader, io.Closer, error) {
	f, err := v.FS.Open(Clean(name))
	if err != nil {
		return nil, nil, err
	}
	return container.NewReader(f), f, nil
}

func (v *Volume) Close() error {
	if v.closer == nil {
		return nil
	}
	return v.closer.Close()
}
