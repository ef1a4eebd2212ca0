// Package uploads stores user uploads on the local disk and serves them back by name.
package uploads

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
)

const (
	URLPrefix       = "/uploads/"
	maxNameLength   = 100
	randomSuffixMax = 1000000000 // 9 digits
)

var (
	NowFunc = time.Now // mockable

	ErrNotFound = core.NewNotFoundError(errors.New("File not found"))

	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)
)

type Store struct {
	dir      string
	maxBytes int64
}

var _ core.FileStore = (*Store)(nil)

// New creates dir if needed.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating uploads dir")
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// SanitizeName keeps letters, digits, dots, dashes and underscores.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "file"
	}
	if len(name) > maxNameLength {
		name = name[len(name)-maxNameLength:]
	}
	return name
}

// NewName returns `{unixMillis}-{9 random digits}-{sanitized name}`.
func NewName(original string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(randomSuffixMax))
	if err != nil {
		n = big.NewInt(NowFunc().UnixNano() % randomSuffixMax)
	}
	return fmt.Sprintf("%d-%09d-%s", NowFunc().UnixMilli(), n.Int64(), SanitizeName(original))
}

// read loads the upload, enforcing the size limit, and sniffs its content type.
func (s *Store) read(up core.Upload, allowed []string) ([]byte, string, error) {
	if up.Content == nil {
		return nil, "", core.ErrFileRequired
	}
	data, err := io.ReadAll(io.LimitReader(up.Content, s.maxBytes+1))
	if err != nil {
		return nil, "", errors.Wrap(err, "reading upload")
	}
	if len(data) == 0 {
		return nil, "", core.ErrFileRequired
	}
	if int64(len(data)) > s.maxBytes {
		return nil, "", core.ErrFileTooLarge
	}
	ct, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return nil, "", core.ErrUnsupportedFileType
	}
	for _, a := range allowed {
		if ct == a {
			return data, ct, nil
		}
	}
	return nil, "", core.ErrUnsupportedFileType
}

func (s *Store) write(name string, data []byte, ct string) (core.StoredFile, error) {
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return core.StoredFile{}, errors.Wrap(err, "creating upload file")
	}
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return core.StoredFile{}, errors.Wrap(err, "writing upload file")
	}
	if err = f.Close(); err != nil {
		return core.StoredFile{}, errors.Wrap(err, "closing upload file")
	}
	return core.StoredFile{Name: name, URL: URLPrefix + name, ContentType: ct, Size: int64(len(data))}, nil
}

func (s *Store) Save(_ context.Context, up core.Upload, allowed ...string) (core.StoredFile, error) {
	data, ct, err := s.read(up, allowed)
	if err != nil {
		return core.StoredFile{}, err
	}
	return s.write(NewName(up.Filename), data, ct)
}

func (s *Store) SaveImage(_ context.Context, up core.Upload, maxWidth int) (core.StoredFile, error) {
	data, ct, err := s.read(up, core.ImageTypes)
	if err != nil {
		return core.StoredFile{}, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return core.StoredFile{}, core.ErrUnsupportedFileType
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	format := imaging.JPEG
	if ct == core.MIMEPNG {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return core.StoredFile{}, errors.Wrap(err, "encoding image")
	}
	return s.write(NewName(up.Filename), buf.Bytes(), ct)
}

// Path resolves a stored file name to its location on disk.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrNotFound
	}
	p := filepath.Join(s.dir, name)
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		return "", ErrNotFound
	}
	return p, nil
}

func (s *Store) Delete(_ context.Context, url string) error {
	p, err := s.Path(strings.TrimPrefix(url, URLPrefix))
	if err != nil {
		return nil
	}
	if err = os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing upload")
	}
	return nil
}
