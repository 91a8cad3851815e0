package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "summer-sun-hat.png", Filename("Summer Sun Hat!", "png"))
	assert.Equal(t, "adpilot-asset.mp4", Filename("", ".mp4"))
}

func TestPrintify_UploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/uploads/images.json", r.URL.Path)
		assert.Equal(t, "Bearer pt", r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hat.png", body["file_name"])
		raw, err := base64.StdEncoding.DecodeString(body["contents"])
		assert.NoError(t, err)
		assert.Equal(t, "PNGDATA", string(raw))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"up-1","file_name":"hat.png","preview_url":"https://p/1"}`))
	}))
	defer srv.Close()

	up, err := NewPrintify(srv.URL, "pt", "shop-1").UploadImage(context.Background(), []byte("PNGDATA"), "hat.png")

	require.NoError(t, err)
	assert.Equal(t, "up-1", up.ID)
	assert.Equal(t, "https://p/1", up.PreviewURL)
}

func TestPrintify_UploadImageErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewPrintify(srv.URL, "pt", "shop-1")

	_, err := client.UploadImage(context.Background(), nil, "x.png")
	require.ErrorIs(t, err, aperrors.ErrMissingInput)

	_, err = client.UploadImage(context.Background(), []byte("x"), "x.png")
	require.ErrorIs(t, err, aperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "502")
}

func TestShopify_CreateProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-10/products.json", r.URL.Path)
		assert.Equal(t, "shpat", r.Header.Get("X-Shopify-Access-Token"))

		var body struct {
			Product map[string]any `json:"product"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sun Hat", body.Product["title"])
		assert.Equal(t, "sun-hat", body.Product["handle"])
		assert.Equal(t, "summer, hats", body.Product["tags"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product":{"id":42,"handle":"sun-hat"}}`))
	}))
	defer srv.Close()

	out, err := NewShopify(srv.URL, "shpat", "", "").CreateProduct(context.Background(), &Product{
		Title:     "Sun Hat",
		Tags:      []string{"summer", "hats"},
		ImageURLs: []string{"https://x/img.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, "42", out.ID)
	assert.Equal(t, srv.URL+"/products/sun-hat", out.URL)
}

func TestShopify_CreateBlogPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-10/blogs/77/articles.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"article":{"id":9,"handle":"summer-launch"}}`))
	}))
	defer srv.Close()

	out, err := NewShopify(srv.URL, "shpat", "77", "").CreateBlogPost(context.Background(), &BlogPost{Title: "Summer Launch"})

	require.NoError(t, err)
	assert.Equal(t, "9", out.ID)
	assert.True(t, strings.HasSuffix(out.URL, "/blogs/news/summer-launch"))
}

func TestShopify_CreateBlogPostWithoutBlog(t *testing.T) {
	_, err := NewShopify("https://shop.example", "shpat", "", "").CreateBlogPost(context.Background(), &BlogPost{Title: "x"})
	assert.ErrorIs(t, err, aperrors.ErrConfiguration)
}

func TestYouTube_UploadCommercial(t *testing.T) {
	var thumbnailSet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/videos":
			assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))
			parts := readParts(t, r)
			assert.Contains(t, parts["metadata"], `"privacyStatus":"private"`)
			assert.Equal(t, "MP4", parts["video"])
			_, _ = w.Write([]byte(`{"id":"vid123"}`))
		case "/thumbnails/set":
			thumbnailSet = true
			assert.Equal(t, "vid123", r.URL.Query().Get("videoId"))
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	out, err := NewYouTube(srv.URL, "ya29", "", zerolog.Nop()).UploadCommercial(context.Background(), &Commercial{
		Video:       []byte("MP4"),
		ProductName: "Sun Hat",
		Title:       "Sun Hat | Summer",
		Thumbnail:   []byte("PNG"),
	})

	require.NoError(t, err, "thumbnail failure must not fail the upload")
	assert.True(t, thumbnailSet)
	assert.Equal(t, "vid123", out.ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid123", out.URL)
}

func readParts(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	mr, err := r.MultipartReader()
	require.NoError(t, err)

	parts := make(map[string]string)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		parts[part.FormName()] = string(data)
	}
	return parts
}
