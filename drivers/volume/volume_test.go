package volume_test

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fbplay/fbplay/drivers/volume"
	fbtesting "github.com/fbplay/fbplay/testing"
)

func TestMain(m *testing.M) { fbtesting.TestMain(m) }

func records(t *testing.T, v *volume.Volume, name string) []string {
	t.Helper()
	r, c, err := v.Records(name)
	require.NoError(t, err)
	defer c.Close()

	var got []string
	for {
		rec, more, err := r.Next(nil)
		require.NoError(t, err)
		if !more {
			break
		}
		got = append(got, string(rec))
	}
	return got
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "1080P"), 0o755))
	raw := fbtesting.Container([]byte("one"), []byte("two"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1080P", "VIDEO.QOI"), raw, 0o644))

	v, err := volume.Open(dir, 0)
	require.NoError(t, err)
	defer v.Close()
	require.Equal(t, "dir", v.Kind())

	got, err := v.ReadFile("/1080P/VIDEO.QOI")
	require.NoError(t, err)
	require.Equal(t, raw, got)
	require.Equal(t, []string{"one", "two"}, records(t, v, "1080P/VIDEO.QOI"))
}

func TestImage(t *testing.T) {
	raw := fbtesting.SolidContainer(t, 16, 9, fbtesting.Palette[:3]...)
	big := bytes.Repeat([]byte{0x5a}, 100_000)
	img := filepath.Join(t.TempDir(), "esp.img")
	require.NoError(t, volume.CreateImage(img, 0, map[string][]byte{
		"1080P/VIDEO.QOI": raw,
		"BIG.BIN":         big,
	}))

	v, err := volume.Open(img, 0)
	require.NoError(t, err)
	defer v.Close()
	require.Equal(t, "fat", v.Kind())

	got, err := v.ReadFile("1080P/VIDEO.QOI")
	require.NoError(t, err)
	require.Equal(t, raw, got)

	got, err = v.ReadFile("BIG.BIN")
	require.NoError(t, err)
	require.Equal(t, big, got)

	fi, err := fs.Stat(v, "1080P")
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	entries, err := fs.ReadDir(v, "1080P")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(len(raw)), func() int64 { i, _ := entries[0].Info(); return i.Size() }())

	_, err = v.ReadFile("MISSING.QOI")
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.Len(t, records(t, v, "1080P/VIDEO.QOI"), 3)

	f, err := v.Open("1080P/VIDEO.QOI")
	require.NoError(t, err)
	defer f.Close()
	head := make([]byte, 4)
	_, err = io.ReadFull(f, head)
	require.NoError(t, err)
	require.Equal(t, raw[:4], head)
}

func TestOpenMissing(t *testing.T) {
	_, err := volume.Open(filepath.Join(t.TempDir(), "nope"), 0)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestClean(t *testing.T) {
	require.Equal(t, "a/b", volume.Clean("/a/b"))
	require.Equal(t, "a/b", volume.Clean(`\a\b`))
	require.Equal(t, ".", volume.Clean("/"))
}

