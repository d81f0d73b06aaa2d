package googleauth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrMissingCredentials = errors.New("google service account credentials file is not configured")

var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveScope,
}

// ClientOptions loads a service account key file and returns the options
// shared by the Sheets and Drive clients.
func ClientOptions(ctx context.Context, credentialsFile string) ([]option.ClientOption, error) {
	if credentialsFile == "" {
		return nil, ErrMissingCredentials
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", credentialsFile, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", credentialsFile, err)
	}

	return []option.ClientOption{option.WithCredentials(creds)}, nil
}
