package intake

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
)

// ErrMissingUpload is returned when a request carries no file part.
var ErrMissingUpload = errors.New("intake: no file in request")

// Upload is a file received from the client.
type Upload struct {
	// Filename is exactly what the client sent and must not be trusted.
	Filename string
	Data     []byte
}

// ReadUpload returns the first file part of a multipart body, skipping plain
// form fields. Parts after the first file are not read.
func ReadUpload(mr *multipart.Reader) (*Upload, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingUpload
		}
		if err != nil {
			return nil, fmt.Errorf("reading multipart body: %w", err)
		}

		filename, ok := rawFilename(part)
		if !ok {
			part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("reading upload %q: %w", filename, err)
		}
		return &Upload{Filename: filename, Data: data}, nil
	}
}

// rawFilename reports the filename parameter of a part's Content-Disposition
// without the base-name stripping done by multipart.Part.FileName. An empty
// filename still marks a file part.
func rawFilename(part *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return "", false
	}
	filename, ok := params["filename"]
	return filename, ok
}
