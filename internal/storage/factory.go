// Package storage selects and builds the configured artifact store.
package storage

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"clipforge/internal/adapters/storage/gdrive"
	"clipforge/internal/adapters/storage/localfs"
	"clipforge/internal/config"
	"clipforge/internal/ports"
)

// Store is the artifact storage contract used by the API and the CLI.
type Store = ports.ArtifactStore

// NewStore builds the provider named by cfg.StorageProvider. The local
// provider roots itself at the output directory, so archived clips and
// served clips are the same files.
func NewStore(cfg config.Config) (Store, error) {
	switch cfg.StorageProvider {
	case "", "local", "localfs":
		return localfs.New(cfg.OutputDir), nil

	case "gdrive":
		return newGDriveStore()

	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.StorageProvider)
	}
}

func newGDriveStore() (Store, error) {
	ctx := context.Background()

	conf := &oauth2.Config{
		ClientID:     config.MustEnv("GDRIVE_CLIENT_ID"),
		ClientSecret: config.MustEnv("GDRIVE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}

	tok := &oauth2.Token{RefreshToken: config.MustEnv("GDRIVE_REFRESH_TOKEN")}
	httpClient := conf.Client(ctx, tok)

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return gdrive.New(srv, config.Env("GDRIVE_FOLDER_ID", "")), nil
}
