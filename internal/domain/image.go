package domain

// Image описывает референс-фото из чата, сохраняемое в объектное хранилище
type Image struct {
	ID        string
	Bucket    string
	ObjectKey string
	Bytes     []byte
	Size      *int64
	MimeType  *string
}

func NewImage(id, bucket, objectKey string, bytes []byte, size *int64, mimeType *string) *Image {
	return &Image{
		ID:        id,
		Bucket:    bucket,
		ObjectKey: objectKey,
		Bytes:     bytes,
		Size:      size,
		MimeType:  mimeType,
	}
}
