package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
)

var noopClose = func() {}

// formUpload opens the multipart file sent under field.
// A missing file yields an empty Upload; the returned func closes the file.
func formUpload(ctx echo.Context, field string) (core.Upload, func(), error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return core.Upload{}, noopClose, nil
		}
		return core.Upload{}, noopClose, errors.Wrap(err, "reading multipart file")
	}
	f, err := fh.Open()
	if err != nil {
		return core.Upload{}, noopClose, errors.Wrap(err, "opening multipart file")
	}
	return core.Upload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
