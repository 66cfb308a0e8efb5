// Package storage is the blob store for media attachments. The interface
// matches the external object-storage contract; the local-disk
// implementation serves blobs under the static file route.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"unitcom_server/pkg/errorx"

	"github.com/google/uuid"
)

// BlobStore uploads and removes attachment blobs.
// Path convention: chat/{kind}-{uuid}.{ext}.
type BlobStore interface {
	// Upload stores a blob and returns its public URL and storage path.
	Upload(kind, ext string, src io.Reader) (publicUrl string, path string, err error)
	// Remove deletes a blob by storage path. Best-effort callers log the
	// error and continue.
	Remove(path string) error
	// PathFromUrl maps a public URL back to a storage path, empty when
	// the URL does not belong to this store.
	PathFromUrl(publicUrl string) string
}

// LocalStore writes blobs under a root directory and serves them from a
// public URL prefix.
type LocalStore struct {
	rootPath   string
	publicBase string
}

// NewLocalStore creates the store, ensuring the chat directory exists.
func NewLocalStore(rootPath, publicBase string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(rootPath, "chat"), 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &LocalStore{
		rootPath:   rootPath,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

func (s *LocalStore) Upload(kind, ext string, src io.Reader) (string, string, error) {
	ext = strings.TrimPrefix(ext, ".")
	path := fmt.Sprintf("chat/%s-%s.%s", kind, uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(s.rootPath, filepath.FromSlash(path)))
	if err != nil {
		return "", "", errorx.Wrap(err, errorx.CodeServerBusy, "create blob file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// partial file is garbage; try to clean it up
		_ = os.Remove(dst.Name())
		return "", "", errorx.Wrap(err, errorx.CodeServerBusy, "write blob file")
	}

	return s.publicBase + "/" + path, path, nil
}

func (s *LocalStore) Remove(path string) error {
	// refuse anything outside the store root
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return errorx.Newf(errorx.CodeInvalidParam, "invalid blob path %s", path)
	}
	if err := os.Remove(filepath.Join(s.rootPath, clean)); err != nil {
		return errorx.Wrapf(err, errorx.CodeServerBusy, "remove blob %s", path)
	}
	return nil
}

func (s *LocalStore) PathFromUrl(publicUrl string) string {
	idx := strings.Index(publicUrl, s.publicBase+"/chat/")
	if idx < 0 {
		return ""
	}
	return publicUrl[idx+len(s.publicBase)+1:]
}
