package file

import (
	"mime"
	"path/filepath"
	"strings"
)

// allowedTypes maps an accepted extension to the MIME types accepted for it.
// Extension and MIME type are checked independently of each other.
var allowedTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".txt":  {"text/plain"},
	".zip":  {"application/zip", "application/x-zip-compressed"},
	".mp3":  {"audio/mpeg", "audio/mp3"},
	".mp4":  {"video/mp4"},
}

var allowedMimeTypes = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, types := range allowedTypes {
		for _, t := range types {
			set[t] = struct{}{}
		}
	}
	return set
}()

// AllowedExtensions lists accepted extensions without the leading dot, for messages.
const AllowedExtensions = "jpeg, jpg, png, gif, pdf, doc, docx, txt, zip, mp4, mp3"

// validateUpload applies every check that must pass before storage is touched.
func validateUpload(in *Upload, maxSize int64) error {
	if in == nil || in.Body == nil {
		return ErrNoFile
	}
	if !validFilename(in.Filename) {
		return ErrInvalidFileName
	}
	if !allowedMimeType(in.ContentType) || !allowedExtension(in.Filename) {
		return ErrInvalidFileType
	}
	if in.Size < 0 || in.Size > maxSize {
		return ErrFileTooLarge
	}
	return nil
}

func allowedExtension(name string) bool {
	_, ok := allowedTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

func allowedMimeType(declared string) bool {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return false
	}
	_, ok := allowedMimeTypes[mediaType]
	return ok
}

// validFilename rejects names that would escape the owner's key prefix.
func validFilename(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
