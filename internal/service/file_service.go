package service

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/institute-erp-api/pkg/errors"
	"github.com/noah-isme/institute-erp-api/pkg/storage"
)

type fileReader interface {
	Open(filename string) (*os.File, error)
}

type urlSigner interface {
	Sign(scope, relPath string) (string, time.Time, error)
	Verify(token string, allowExpired bool) (*storage.Claims, error)
}

// FileDownload is an opened stored file ready to stream.
type FileDownload struct {
	File        *os.File
	FileName    string
	ContentType string
	Size        int64
}

// FileService issues and redeems signed download links for locally stored files.
type FileService struct {
	files     fileReader
	signer    urlSigner
	apiPrefix string
	logger    *zap.Logger
}

// NewFileService constructs a FileService. Links are rooted at apiPrefix.
func NewFileService(files fileReader, signer urlSigner, apiPrefix string, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	apiPrefix = strings.TrimRight(apiPrefix, "/")
	if apiPrefix == "" {
		apiPrefix = "/api/v1"
	}
	return &FileService{files: files, signer: signer, apiPrefix: apiPrefix, logger: logger}
}

// Link returns a signed download URL for relPath.
func (s *FileService) Link(scope, relPath string) (string, time.Time, error) {
	token, expiresAt, err := s.signer.Sign(scope, relPath)
	if err != nil {
		return "", time.Time{}, internalError(err, "failed to sign download link")
	}
	return fmt.Sprintf("%s/files/%s", s.apiPrefix, token), expiresAt, nil
}

// Open verifies token and opens the file it grants access to.
func (s *FileService) Open(token string) (*FileDownload, error) {
	claims, err := s.signer.Verify(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidToken) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link is invalid or expired")
		}
		return nil, internalError(err, "failed to verify download link")
	}
	file, err := s.files.Open(claims.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, internalError(err, "failed to open file")
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, internalError(err, "failed to stat file")
	}
	name := path.Base(claims.Path)
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	s.logger.Debug("file download", zap.String("scope", claims.Scope), zap.String("path", claims.Path))
	return &FileDownload{File: file, FileName: name, ContentType: contentType, Size: info.Size()}, nil
}
