package imagestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG: signature + IHDR
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xde,
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "product_img"))
	require.NoError(t, err)
	return s
}

func Test_New_Creates_Directory(t *testing.T) {
	s := newStore(t)

	info, err := os.Stat(s.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func Test_Save_Writes_File_Under_Generated_Name(t *testing.T) {
	s := newStore(t)

	name, n, err := s.Save(NewUpload("Holiday Photo.PNG", pngBytes), ".PNG")
	require.NoError(t, err)

	assert.Equal(t, int64(len(pngBytes)), n)
	assert.Equal(t, ".png", filepath.Ext(name))
	assert.NotContains(t, name, "Holiday")
	assert.True(t, s.Exists(name))

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func Test_Save_Same_Filename_Twice_Does_Not_Collide(t *testing.T) {
	s := newStore(t)

	first, _, err := s.Save(NewUpload("a.png", pngBytes), ".png")
	require.NoError(t, err)
	second, _, err := s.Save(NewUpload("a.png", []byte("other")), ".png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, s.Exists(first))
	assert.True(t, s.Exists(second))
}

func Test_Delete_Removes_File_And_Ignores_Missing(t *testing.T) {
	s := newStore(t)

	name, _, err := s.Save(NewUpload("a.png", pngBytes), ".png")
	require.NoError(t, err)

	require.NoError(t, s.Delete(name))
	assert.False(t, s.Exists(name))

	require.NoError(t, s.Delete(name))
}

func Test_Path_Rejects_Traversal(t *testing.T) {
	s := newStore(t)

	for _, name := range []string{"", ".", "..", "../x.png", "a/b.png", `a\b.png`} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.False(t, s.Exists(name))
	}
	assert.ErrorIs(t, s.Delete("../etc/passwd"), ErrInvalidName)
}

func Test_Detect_Sniffs_Content(t *testing.T) {
	mt, err := NewUpload("fake.jpg", pngBytes).Detect()
	require.NoError(t, err)
	assert.True(t, mt.Is("image/png"))

	mt, err = NewUpload("notes.png", []byte("just some text")).Detect()
	require.NoError(t, err)
	assert.False(t, mt.Is("image/png"))
}
