package drive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	pngMimeType         = "image/png"
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
)

type Client struct {
	svc *drivev3.Service
}

func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func FileURL(id string) string {
	return "https://drive.google.com/uc?id=" + id
}

// Upload stores a PNG, shares it with anyone holding the link and returns a
// URL usable from an IMAGE formula.
func (c *Client) Upload(ctx context.Context, name string, png []byte) (string, error) {
	file, err := c.svc.Files.Create(&drivev3.File{Name: name, MimeType: pngMimeType}).
		Media(bytes.NewReader(png), googleapi.ContentType(pngMimeType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		log.Err(err).Str("name", name).Msg("Failed to upload image")
		return "", fmt.Errorf("drive upload: %w", err)
	}

	_, err = c.svc.Permissions.Create(file.Id, &drivev3.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	if err != nil {
		log.Err(err).Str("fileId", file.Id).Msg("Failed to share image")
		return "", fmt.Errorf("drive share: %w", err)
	}

	url := FileURL(file.Id)
	log.Info().Str("url", url).Msg("Uploaded image")
	return url, nil
}

func (c *Client) FindSpreadsheet(ctx context.Context, title string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(title, "'", `\'`), spreadsheetMimeType)

	list, err := c.svc.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive search for %q: %w", title, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found", title)
	}

	log.Debug().Str("title", title).Str("id", list.Files[0].Id).Msg("Resolved spreadsheet")
	return list.Files[0].Id, nil
}
