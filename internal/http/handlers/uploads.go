package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
)

// formOverhead is allowed on top of the file ceiling for boundaries and text fields
const formOverhead = 1 << 20

// UploadLimits mirrors the media ceilings at the HTTP layer
type UploadLimits struct {
	MaxBookBytes  int64
	MaxPhotoBytes int64
	MaxPhotos     int
}

// parseMultipart caps the body before gin reads the form
func parseMultipart(c *gin.Context, limit int64) (*multipart.Form, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverhead)
	form, err := c.MultipartForm()
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, fmt.Errorf("%w: request body over %d bytes", domain.ErrPayloadTooLarge, tooBig.Limit)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return &multipart.Form{}, nil
		}
		return nil, domain.NewValidationError("", "Malformed multipart form: "+err.Error())
	}
	return form, nil
}

func readUpload(fh *multipart.FileHeader, field domain.UploadField) (*domain.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.Upload{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// singleUpload returns the first file under field, nil when absent
func singleUpload(form *multipart.Form, field domain.UploadField) (*domain.Upload, error) {
	if form == nil || len(form.File[string(field)]) == 0 {
		return nil, nil
	}
	return readUpload(form.File[string(field)][0], field)
}

func manyUploads(form *multipart.Form, field domain.UploadField) ([]*domain.Upload, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[string(field)]
	out := make([]*domain.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readUpload(fh, field)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// formValue reads a text field, falling back to the query string
func formValue(c *gin.Context, form *multipart.Form, key string) string {
	if form != nil {
		if v := form.Value[key]; len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}
