package controllers

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/utils"
)

// UploadImage stores a product image. Without an image host the image is
// returned inline as a base64 data URL.
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "No image file provided", nil)
		return
	}
	mimeType, err := utils.ValidateImageFile(file)
	if err != nil {
		if errors.Is(err, utils.ErrImageTooLarge) || errors.Is(err, utils.ErrNotAnImage) {
			utils.BadRequest(c, err.Error(), nil)
			return
		}
		utils.LogError("Failed to inspect upload %s: %v", file.Filename, err)
		utils.BadRequest(c, "Failed to read uploaded file", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.LogError("Failed to open upload %s: %v", file.Filename, err)
		utils.InternalServerError(c, "Failed to process image", nil)
		return
	}
	defer src.Close()

	if ImageHost == nil {
		data, err := io.ReadAll(src)
		if err != nil {
			utils.InternalServerError(c, "Failed to process image", nil)
			return
		}
		utils.Success(c, "Image stored as base64 (Cloudinary not configured)", utils.UploadedImage{
			URL: utils.ImageDataURL(mimeType, data),
		})
		return
	}

	img, err := ImageHost.Upload(c.Request.Context(), src, file.Filename)
	if err != nil {
		utils.LogError("Image upload failed: %v", err)
		utils.InternalServerError(c, "Failed to upload image", nil)
		return
	}
	utils.LogInfo("Uploaded product image %s", img.PublicID)
	utils.Success(c, "Image uploaded successfully", img)
}

// DeleteImage removes a hosted image. Public ids contain the folder, so the
// route captures them with a wildcard.
func DeleteImage(c *gin.Context) {
	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	if publicID == "" {
		utils.BadRequest(c, "Image id is required", nil)
		return
	}
	if ImageHost == nil {
		utils.BadRequest(c, "Cloudinary not configured", nil)
		return
	}
	if err := ImageHost.Destroy(c.Request.Context(), publicID); err != nil {
		utils.LogError("Image delete failed for %s: %v", publicID, err)
		utils.InternalServerError(c, "Failed to delete image", nil)
		return
	}
	utils.LogInfo("Deleted product image %s", publicID)
	utils.Success(c, "Image deleted successfully", nil)
}
