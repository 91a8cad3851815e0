package publish

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mrz1836/adpilot/internal/constants"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// DefaultPrintifyBaseURL is the Printify API root.
const DefaultPrintifyBaseURL = "https://api.printify.com/v1"

// Printify uploads artwork to a Printify account.
type Printify struct {
	http   *resty.Client
	shopID string
}

// NewPrintify creates a Printify client.
func NewPrintify(baseURL, token, shopID string) *Printify {
	if baseURL == "" {
		baseURL = DefaultPrintifyBaseURL
	}
	return &Printify{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(constants.DefaultHTTPTimeout).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(token),
		shopID: shopID,
	}
}

// ShopID returns the configured shop.
func (p *Printify) ShopID() string { return p.shopID }

// UploadImage implements ImageUploader.
func (p *Printify) UploadImage(ctx context.Context, data []byte, filename string) (*Upload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: printify upload: empty image", aperrors.ErrMissingInput)
	}

	var out Upload
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"file_name": filename,
			"contents":  base64.StdEncoding.EncodeToString(data),
		}).
		SetResult(&out).
		Post("/uploads/images.json")
	if err := checkResponse("printify upload", resp, err); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: printify upload returned no id", aperrors.ErrUpstream)
	}
	return &out, nil
}
