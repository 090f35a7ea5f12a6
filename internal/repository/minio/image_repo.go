package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/fashion-rag/internal/cfg"
	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageRepo хранит референс-фото из чата в MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает изображение и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	reader := bytes.NewReader(image.Bytes)

	info, err := i.mc.PutObject(ctx, i.cfg.BucketName, image.ObjectKey, reader, *image.Size, minio.PutObjectOptions{
		ContentType: *image.MimeType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
