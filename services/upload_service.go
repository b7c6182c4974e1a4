package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/akinalp/brickdepot/pkg"
	"github.com/akinalp/brickdepot/pkg/logger"
)

// UploadURLPrefix is where saved files are served from.
const UploadURLPrefix = "/uploads/"

// UploadService stores profile images on local disk.
type UploadService interface {
	// SaveProfileImage writes file under the upload dir as
	// profile-<userName or unix-ms><ext> and returns its URL path.
	// An existing file with the same name is overwritten.
	SaveProfileImage(ctx context.Context, userName string, file multipart.File, header *multipart.FileHeader) (string, error)
}

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type uploadService struct {
	dir     string
	maxSize int64
	log     *logger.Logger
	now     func() time.Time
}

// NewUploadService returns an UploadService writing into dir.
func NewUploadService(dir string, maxSize int64, log *logger.Logger) UploadService {
	return &uploadService{
		dir:     dir,
		maxSize: maxSize,
		log:     log.Named("upload"),
		now:     time.Now,
	}
}

func (s *uploadService) SaveProfileImage(ctx context.Context, userName string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxSize {
		return "", pkg.E(pkg.KindBadRequest, fmt.Sprintf("Image too large (max %d bytes)", s.maxSize))
	}

	mime, err := sniffImage(file)
	if err != nil {
		return "", err
	}

	name := profileImageName(userName, header.Filename, s.now())
	dest := filepath.Join(s.dir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", pkg.Wrap(pkg.KindInternal, "Unable to save image", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file, s.maxSize+1)); err != nil {
		os.Remove(dest)
		return "", pkg.Wrap(pkg.KindInternal, "Unable to save image", err)
	}

	s.log.Infow("profile image saved", "file", name, "mime", mime)
	return UploadURLPrefix + name, nil
}

// sniffImage checks the leading bytes and rewinds the file.
func sniffImage(file multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", pkg.Wrap(pkg.KindInternal, "Unable to read image", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", pkg.Wrap(pkg.KindInternal, "Unable to read image", err)
	}

	mime := http.DetectContentType(head[:n])
	if !allowedImageMimes[mime] {
		return "", pkg.E(pkg.KindBadRequest, fmt.Sprintf("File type not allowed: %s", mime))
	}
	return mime, nil
}

// profileImageName derives the stored file name. Only directory components
// are stripped from userName; two users with the same name share a file.
func profileImageName(userName, original string, now time.Time) string {
	base := sanitizeFilename(userName)
	if base == "" {
		base = strconv.FormatInt(now.UnixMilli(), 10)
	}
	ext := strings.ToLower(filepath.Ext(sanitizeFilename(original)))
	return "profile-" + base + ext
}

func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '\\' || r == '\x00' {
			return '/'
		}
		return r
	}, strings.TrimSpace(name))
	name = filepath.Base(name)

	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}
