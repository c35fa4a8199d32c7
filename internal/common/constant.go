// Package common contains shared constants and sentinel errors used across
// ImgVault components.
package common

// AppName is used for the cache sub-directory and the media-library album.
const AppName = "ImgVault"

// ImageExtension is the extension of every uploaded blob and every local
// cache entry. Payloads are normalised to JPEG before upload.
const ImageExtension = ".jpeg"
