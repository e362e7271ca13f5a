package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/blogmind_server/internal/pkg/oss"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fakeImageStore struct {
	folder  string
	ownerID int64
	ext     string
	data    []byte
	err     error
}

func (f *fakeImageStore) UploadImage(folder string, ownerID int64, data []byte, ext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.folder, f.ownerID, f.data, f.ext = folder, ownerID, data, ext
	return "https://cdn.example.com/" + folder + "/img" + ext, nil
}

func TestUploadService_UploadCover(t *testing.T) {
	store := &fakeImageStore{}
	service := NewUploadService(store, testConfig())

	resp, err := service.UploadCover(7, bytes.NewReader(pngHeader), "Cover.PNG", int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/covers/img.png", resp.URL)
	assert.Equal(t, int64(len(pngHeader)), resp.Size)
	assert.Equal(t, oss.FolderCovers, store.folder)
	assert.Equal(t, int64(7), store.ownerID)
	assert.Equal(t, ".png", store.ext)
}

func TestUploadService_UploadAvatar_Folder(t *testing.T) {
	store := &fakeImageStore{}
	service := NewUploadService(store, testConfig())

	_, err := service.UploadAvatar(3, bytes.NewReader(pngHeader), "me.png", int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, oss.FolderAvatars, store.folder)
}

func TestUploadService_Rejections(t *testing.T) {
	service := NewUploadService(&fakeImageStore{}, testConfig())
	big := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)

	tests := []struct {
		name     string
		data     []byte
		filename string
		size     int64
		wantErr  error
	}{
		{"bad extension", pngHeader, "shell.exe", int64(len(pngHeader)), ErrInvalidImage},
		{"declared too large", pngHeader, "a.png", 4096, ErrFileTooLarge},
		{"actual too large", big, "a.png", 10, ErrFileTooLarge},
		{"not an image", []byte("plain text pretending"), "a.png", 21, ErrInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UploadCover(1, bytes.NewReader(tt.data), tt.filename, tt.size)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestUploadService_StoreErrors(t *testing.T) {
	_, err := NewUploadService(nil, testConfig()).UploadCover(1, bytes.NewReader(pngHeader), "a.png", 16)
	assert.Equal(t, ErrStorageNotConfig, err)

	boom := errors.New("oss down")
	_, err = NewUploadService(&fakeImageStore{err: boom}, testConfig()).UploadCover(1, bytes.NewReader(pngHeader), "a.png", 16)
	assert.ErrorIs(t, err, boom)
}
