// Package storage persists uploaded avatar images. Two backends exist,
// a local uploads directory for small deployments and S3 for anything
// that needs to survive the host.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

type Storage interface {
	// Put stores the blob under key and returns the URL clients can
	// fetch it from
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// New builds the backend selected by storage.type. Config validation
// already made sure the required settings are present.
func New() (Storage, error) {
	switch viper.GetString("storage.type") {
	case "s3":
		return NewS3()
	case "local":
		return NewLocal(viper.GetString("storage.local_dir"))
	}

	return nil, fmt.Errorf("invalid storage type %q", viper.GetString("storage.type"))
}
