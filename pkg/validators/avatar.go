package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrNoAvatar              = errors.New("no avatar file provided")
	ErrAvatarTooLarge        = errors.New("avatar file too large")
	ErrAvatarTypeUnsupported = errors.New("unsupported avatar file type")
)

var allowedAvatarTypes = []string{"image/png", "image/jpeg", "image/webp"}

// AvatarValidator checks the uploaded avatar file and returns it opened
// and rewound on success
func AvatarValidator(fh *multipart.FileHeader) (int, multipart.File, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, ErrNoAvatar
	}

	// Check headers first which is easy to spoof, but faster for legit clients
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return http.StatusBadRequest, nil, ErrAvatarTypeUnsupported
	}

	if fh.Size > viper.GetInt64("avatar.max_size") {
		return http.StatusRequestEntityTooLarge, nil, ErrAvatarTooLarge
	}

	// And now do the checks on the actual file to avoid
	// malicious clients
	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	ok := false
	for _, t := range allowedAvatarTypes {
		if mime.Is(t) {
			ok = true
			break
		}
	}

	if !ok {
		f.Close()
		return http.StatusBadRequest, nil, ErrAvatarTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	return 0, f, nil
}
