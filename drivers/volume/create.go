package volume

import (
	"fmt"
	"maps"
	"os"
	"path"
	"slices"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
)

// DefaultImageSize is large enough for a FAT32 file system and a short clip.
const DefaultImageSize = 64 << 20

// Label is the volume label of images made by CreateImage.
const Label = "FBPLAY"

// CreateImage writes a new unpartitioned FAT32 image of size bytes to dst,
// holding files keyed by slash separated path.  dst must not exist.
func CreateImage(dst string, size int64, files map[string][]byte) error {
	if size <= 0 {
		size = DefaultImageSize
	}
	d, err := diskfs.Create(dst, size, diskfs.Raw, diskfs.SectorSizeDefault)
	if err != nil {
		return err
	}
	defer d.File.Close()

	fsys, err := d.CreateFilesystem(disk.FilesystemSpec{
		Partition:   0,
		FSType:      filesystem.TypeFat32,
		VolumeLabel: Label,
	})
	if err != nil {
		return err
	}

	for _, key := range slices.Sorted(maps.Keys(files)) {
		name := Clean(key)
		if dir := path.Dir(name); dir != "." {
			if err := fsys.Mkdir(abs(dir)); err != nil {
				return fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		f, err := fsys.OpenFile(abs(name), os.O_CREATE|os.O_RDWR)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		_, err = f.Write(files[key])
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return d.File.Sync()
}
