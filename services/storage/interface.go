package storage

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService is the external file-hosting collaborator. Uploads return a
// publicly reachable URL suitable for patching onto a payment record.
type StorageService interface {
	Upload(ctx context.Context, file io.Reader, destFolder string) (url string, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// StorageServiceImpl implements StorageService on Cloudinary.
type StorageServiceImpl struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}
