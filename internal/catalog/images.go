package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	PosterSize          = "w500"
	BackdropSize        = "w780"
	OriginalSize        = "original"
)

// ImageURL builds the public URL for an image path such as a movie's
// poster_path. A nil or empty path yields "".
func (c *Client) ImageURL(path *string, size string) string {
	return imageURL(c.imageBaseURL, path, size)
}

// PosterURL is ImageURL at poster size.
func (c *Client) PosterURL(m Movie) string {
	return c.ImageURL(m.PosterPath, PosterSize)
}

// BackdropURL is ImageURL at backdrop size.
func (c *Client) BackdropURL(m Movie) string {
	return c.ImageURL(m.BackdropPath, BackdropSize)
}

func imageURL(base string, path *string, size string) string {
	if path == nil || *path == "" {
		return ""
	}
	if size == "" {
		size = OriginalSize
	}
	p := *path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return fmt.Sprintf("%s/%s%s", base, size, p)
}

// DownloadImage downloads an image to a local path
func (c *Client) DownloadImage(ctx context.Context, imagePath *string, size string, outputPath string) error {
	src := c.ImageURL(imagePath, size)
	if src == "" {
		return invalidArgument("image path is empty")
	}

	// Image hosts are public; the bearer token is not sent there.
	data, err := c.doRequestWithRetry(ctx, src, false)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	c.pause(ctx)
	return nil
}
