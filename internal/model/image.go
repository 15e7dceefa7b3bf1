package model

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrNoImage is returned when an item or calibration carries no photo.
var ErrNoImage = errors.New("no image")

// ErrRemoteImage is returned when a photo is a URL rather than inline data.
var ErrRemoteImage = errors.New("image is a remote URL")

// ImageSource converts a stored photo into something a viewer can open:
// URLs and data URIs are returned as-is, bare base64 is assumed to be JPEG.
func ImageSource(image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http") || strings.HasPrefix(image, "data:image") {
		return image
	}
	return "data:image/jpeg;base64," + image
}

// DecodeImage returns the raw bytes and file extension of an inline photo.
func DecodeImage(image string) ([]byte, string, error) {
	if image == "" {
		return nil, "", ErrNoImage
	}
	if strings.HasPrefix(image, "http") {
		return nil, "", ErrRemoteImage
	}

	ext := "jpg"
	payload := image
	if strings.HasPrefix(image, "data:image/") {
		header, data, ok := strings.Cut(image, ",")
		if !ok {
			return nil, "", errors.New("malformed data URI")
		}
		payload = data
		mime := strings.TrimPrefix(header, "data:image/")
		mime, _, _ = strings.Cut(mime, ";")
		switch mime {
		case "png", "gif", "webp":
			ext = mime
		}
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return raw, ext, nil
}
