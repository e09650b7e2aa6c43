package source

import (
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"path"

	"github.com/samber/oops"
	"resty.dev/v3"
)

type urlSource struct {
	url    string
	client *resty.Client
}

func NewURL(rawURL string) Source {
	return &urlSource{
		url:    rawURL,
		client: resty.New(),
	}
}

func (s *urlSource) Read(ctx context.Context) (*Input, error) {
	response, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("url", s.url).
			Wrapf(err, "downloading %s", s.url)
	}

	if response.StatusCode() < http.StatusOK || response.StatusCode() >= http.StatusMultipleChoices {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("url", s.url).
			With("status", response.StatusCode()).
			Errorf("url returned non-success status %d", response.StatusCode())
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, oops.
			Code("DOWNLOAD_FAILED").
			With("url", s.url).
			Wrapf(err, "reading response body")
	}

	return &Input{Name: filenameFromURL(s.url), Content: content}, nil
}

// filenameFromURL keeps the extension of the remote document so format
// detection still works.
func filenameFromURL(rawURL string) string {
	parsed, err := neturl.Parse(rawURL)
	if err == nil {
		baseName := path.Base(parsed.Path)
		if baseName != "" && baseName != "." && baseName != "/" {
			return baseName
		}
	}

	return "remote.mdx"
}
