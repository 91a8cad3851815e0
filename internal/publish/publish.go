// Package publish provides clients for the publishing targets a campaign can
// push to: a print-on-demand catalog (Printify), a storefront with a blog
// (Shopify), and a video host (YouTube).
//
// Each client is constructed once from explicit credentials and injected into
// the publisher executor. Transport failures and non-2xx responses are
// wrapped with errors.ErrUpstream.
package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/gosimple/slug"

	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// Target names used in plans and task PublishTo lists.
const (
	TargetPrintify = "printify"
	TargetShopify  = "shopify"
	TargetYouTube  = "youtube"
	TargetTwitter  = "twitter"
)

// ImageUploader uploads raw image bytes.
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte, filename string) (*Upload, error)
}

// Storefront creates blog articles and product listings.
type Storefront interface {
	CreateBlogPost(ctx context.Context, post *BlogPost) (*Published, error)
	CreateProduct(ctx context.Context, product *Product) (*Published, error)
}

// VideoHost uploads commercials.
type VideoHost interface {
	UploadCommercial(ctx context.Context, video *Commercial) (*Published, error)
}

// Upload is the receipt of an image upload.
type Upload struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	PreviewURL string `json:"preview_url"`
}

// Published is the receipt of a created remote resource.
type Published struct {
	ID  string
	URL string
}

// BlogPost is an article to create on the storefront blog.
type BlogPost struct {
	Title     string
	BodyHTML  string
	Author    string
	Tags      []string
	Published bool
	ImageURL  string
}

// Product is a storefront product listing.
type Product struct {
	Title       string
	BodyHTML    string
	ProductType string
	Tags        []string
	ImageURLs   []string
}

// Commercial is a video to upload with its metadata.
type Commercial struct {
	Video       []byte
	ProductName string
	Title       string
	Description string
	Tags        []string
	Privacy     string
	Thumbnail   []byte
}

// Filename builds a safe upload filename from a human label.
func Filename(label, ext string) string {
	base := slug.Make(label)
	if base == "" {
		base = "adpilot-asset"
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}

// checkResponse converts transport errors and non-2xx responses into ErrUpstream.
func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", aperrors.ErrUpstream, op, err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if len(body) > 300 {
			body = body[:300]
		}
		return fmt.Errorf("%w: %s: status %d: %s", aperrors.ErrUpstream, op, resp.StatusCode(), body)
	}
	return nil
}
