package utils

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MaxImageSize is the largest accepted product image.
const MaxImageSize = 5 * 1024 * 1024

const (
	productImageFolder    = "nocturne-products"
	productImageTransform = "c_fill,h_1000,w_800,q_auto"
)

var (
	ErrImageTooLarge = errors.New("file size exceeds 5MB limit")
	ErrNotAnImage    = errors.New("only image files are allowed")
)

// UploadedImage is where a hosted image ended up.
type UploadedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

// ImageHost stores product images with a remote provider.
type ImageHost interface {
	Upload(ctx context.Context, r io.Reader, filename string) (UploadedImage, error)
	Destroy(ctx context.Context, publicID string) error
}

// CloudinaryHost uploads product images to Cloudinary.
type CloudinaryHost struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryHost returns nil when any credential is missing.
func NewCloudinaryHost(cloudName, apiKey, apiSecret string) (*CloudinaryHost, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryHost{cld: cld}, nil
}

func (h *CloudinaryHost) Upload(ctx context.Context, r io.Reader, filename string) (UploadedImage, error) {
	resp, err := h.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         productImageFolder,
		Transformation: productImageTransform,
	})
	if err != nil {
		return UploadedImage{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return UploadedImage{}, fmt.Errorf("upload %s: %s", filename, resp.Error.Message)
	}
	return UploadedImage{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (h *CloudinaryHost) Destroy(ctx context.Context, publicID string) error {
	resp, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("destroy %s: %s", publicID, resp.Error.Message)
	}
	return nil
}

// ValidateImageFile checks the size limit and sniffs the content type.
// It returns the detected MIME type.
func ValidateImageFile(file *multipart.FileHeader) (string, error) {
	if file.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	mimeType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(mimeType, "image/") {
		return "", ErrNotAnImage
	}
	return mimeType, nil
}

// ImageDataURL encodes an image inline for deployments without an image host.
func ImageDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
