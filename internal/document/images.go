package document

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ImageSource is one uploaded file.
type ImageSource interface {
	Name() string
	ContentType() string
	Open() (io.ReadCloser, error)
}

// EncodeImages reads every source concurrently and returns data URLs in the
// same order as sources. Files that are not images are skipped.
func EncodeImages(ctx context.Context, sources []ImageSource) ([]string, error) {
	slots := make([]string, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			url, err := encodeImage(src)
			if err != nil {
				return fmt.Errorf("read image %q failed: %w", src.Name(), err)
			}
			slots[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(slots))
	for _, url := range slots {
		if url != "" {
			out = append(out, url)
		}
	}
	return out, nil
}

func encodeImage(src ImageSource) (string, error) {
	rc, err := src.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	mime := imageType(src.ContentType(), data)
	if mime == "" {
		return "", nil
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// imageType trusts the declared type when it is an image and otherwise sniffs
// the bytes. It returns "" for anything that is not an image.
func imageType(declared string, data []byte) string {
	declared = strings.TrimSpace(strings.ToLower(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	if declared != "" && declared != "application/octet-stream" {
		return ""
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return ""
}
