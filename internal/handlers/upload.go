package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/diewo77/go-supplies/internal/services"
)

// formFile returns the "file" part of a multipart upload and its name.
func formFile(r *http.Request) (multipart.File, string, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, "", &services.IOError{Source: "upload", Err: err}
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", &services.IOError{Source: "upload", Err: err}
	}
	return f, header.Filename, nil
}
