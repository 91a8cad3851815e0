package publish

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/gosimple/slug"

	"github.com/mrz1836/adpilot/internal/constants"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// DefaultShopifyAPIVersion is the Admin API version used when none is configured.
const DefaultShopifyAPIVersion = "2024-10"

// Shopify creates products and blog articles in a Shopify store.
type Shopify struct {
	http       *resty.Client
	storeURL   string
	blogID     string
	apiVersion string
}

// NewShopify creates a Shopify client. storeURL is the shop origin,
// e.g. https://my-shop.myshopify.com.
func NewShopify(storeURL, accessToken, blogID, apiVersion string) *Shopify {
	if apiVersion == "" {
		apiVersion = DefaultShopifyAPIVersion
	}
	storeURL = strings.TrimRight(storeURL, "/")
	return &Shopify{
		http: resty.New().
			SetBaseURL(storeURL+"/admin/api/"+apiVersion).
			SetTimeout(constants.DefaultHTTPTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("X-Shopify-Access-Token", accessToken),
		storeURL:   storeURL,
		blogID:     blogID,
		apiVersion: apiVersion,
	}
}

type shopifyArticle struct {
	Article struct {
		ID     int64  `json:"id"`
		Handle string `json:"handle"`
	} `json:"article"`
}

type shopifyProduct struct {
	Product struct {
		ID     int64  `json:"id"`
		Handle string `json:"handle"`
	} `json:"product"`
}

// CreateBlogPost implements Storefront.
func (s *Shopify) CreateBlogPost(ctx context.Context, post *BlogPost) (*Published, error) {
	if s.blogID == "" {
		return nil, fmt.Errorf("%w: shopify blog id", aperrors.ErrConfiguration)
	}

	article := map[string]any{
		"title":        post.Title,
		"body_html":    post.BodyHTML,
		"author":       post.Author,
		"tags":         strings.Join(post.Tags, ", "),
		"published":    post.Published,
		"handle":       slug.Make(post.Title),
		"summary_html": "",
	}
	if post.ImageURL != "" {
		article["image"] = map[string]string{"src": post.ImageURL}
	}

	var out shopifyArticle
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"article": article}).
		SetResult(&out).
		Post("/blogs/" + s.blogID + "/articles.json")
	if err := checkResponse("shopify create article", resp, err); err != nil {
		return nil, err
	}

	handle := out.Article.Handle
	if handle == "" {
		handle = slug.Make(post.Title)
	}
	return &Published{
		ID:  strconv.FormatInt(out.Article.ID, 10),
		URL: s.storeURL + "/blogs/news/" + handle,
	}, nil
}

// CreateProduct implements Storefront.
func (s *Shopify) CreateProduct(ctx context.Context, product *Product) (*Published, error) {
	images := make([]map[string]string, 0, len(product.ImageURLs))
	for _, u := range product.ImageURLs {
		images = append(images, map[string]string{"src": u})
	}

	var out shopifyProduct
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"product": map[string]any{
			"title":        product.Title,
			"body_html":    product.BodyHTML,
			"product_type": product.ProductType,
			"tags":         strings.Join(product.Tags, ", "),
			"handle":       slug.Make(product.Title),
			"images":       images,
			"status":       "draft",
		}}).
		SetResult(&out).
		Post("/products.json")
	if err := checkResponse("shopify create product", resp, err); err != nil {
		return nil, err
	}

	handle := out.Product.Handle
	if handle == "" {
		handle = slug.Make(product.Title)
	}
	return &Published{
		ID:  strconv.FormatInt(out.Product.ID, 10),
		URL: s.storeURL + "/products/" + handle,
	}, nil
}
