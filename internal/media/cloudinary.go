package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores media in Cloudinary instead of local disk.
// Selected when the Cloudinary credentials are configured.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	if folder == "" {
		folder = "padmamangal"
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// Upload sends the file to Cloudinary. Cloudinary mints the absolute URL,
// so the request base is ignored.
func (c *CloudinaryUploader) Upload(ctx context.Context, _, fileName, _ string, r io.Reader) (string, error) {
	fileBytes, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	result, err := c.cld.Upload.Upload(ctx, fileBytes, uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     sanitizeName(fileName),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return result.SecureURL, nil
}
