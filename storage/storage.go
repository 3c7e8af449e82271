package storage

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"photolabel/config"
)

// StorageAPI keeps uploaded originals. Nothing reads them back through this service.
type StorageAPI interface {
	Save(ctx context.Context, path string, reader io.Reader, mimeType string) (int64, error)
	Delete(ctx context.Context, path string) error
	Describe() string
}

// Init picks the storage backend from cfg. It returns nil when no backend is configured.
func Init(cfg config.Storage, log *zap.Logger) (StorageAPI, error) {
	var (
		s   StorageAPI
		err error
	)
	switch {
	case cfg.S3Bucket != "":
		s, err = NewS3Storage(cfg)
	case cfg.Dir != "":
		s, err = NewDiskStorage(cfg.Dir)
	default:
		log.Info("no storage configured, uploaded files are not kept")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("storage ready", zap.String("storage", s.Describe()))
	return s, nil
}

// ImagePath returns where an uploaded image is kept, e.g. user/3/17.jpg
func ImagePath(ownerID, imageID uint64, name string) string {
	return "user/" + strconv.FormatUint(ownerID, 10) + "/" + strconv.FormatUint(imageID, 10) +
		strings.ToLower(filepath.Ext(name))
}
