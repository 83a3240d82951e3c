package s3

// SecureMIMETypesExtension lists the image MIME types accepted for vehicle
// photos and their canonical file extensions.
var SecureMIMETypesExtension = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
	"image/webp": "webp",
}

// CheckSecureImageAndGetExtension reports whether the MIME type is an
// accepted image type and returns its extension.
func CheckSecureImageAndGetExtension(mimeType string) (bool, string) {
	ext, ok := SecureMIMETypesExtension[mimeType]
	return ok, ext
}
