package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/mrz1836/adpilot/internal/constants"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
)

// DefaultYouTubeUploadURL is the YouTube Data API upload root.
const DefaultYouTubeUploadURL = "https://www.googleapis.com/upload/youtube/v3"

// YouTube uploads commercials through the YouTube Data API multipart upload.
type YouTube struct {
	http       *resty.Client
	categoryID string
	logger     zerolog.Logger
}

// NewYouTube creates a YouTube client authenticated with an OAuth access token.
func NewYouTube(baseURL, accessToken, categoryID string, logger zerolog.Logger) *YouTube {
	if baseURL == "" {
		baseURL = DefaultYouTubeUploadURL
	}
	if categoryID == "" {
		categoryID = "22"
	}
	return &YouTube{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(constants.DefaultMediaTimeout).
			SetAuthToken(accessToken),
		categoryID: categoryID,
		logger:     logger,
	}
}

type youtubeVideo struct {
	ID string `json:"id"`
}

// UploadCommercial implements VideoHost. A thumbnail failure is logged and
// does not fail the upload.
func (y *YouTube) UploadCommercial(ctx context.Context, video *Commercial) (*Published, error) {
	if len(video.Video) == 0 {
		return nil, fmt.Errorf("%w: youtube upload: empty video", aperrors.ErrMissingInput)
	}

	privacy := video.Privacy
	if privacy == "" {
		privacy = "private"
	}
	meta, err := json.Marshal(map[string]any{
		"snippet": map[string]any{
			"title":       video.Title,
			"description": video.Description,
			"tags":        video.Tags,
			"categoryId":  y.categoryID,
		},
		"status": map[string]any{
			"privacyStatus":           privacy,
			"selfDeclaredMadeForKids": false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode youtube metadata: %w", err)
	}

	var out youtubeVideo
	resp, err := y.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"uploadType": "multipart", "part": "snippet,status"}).
		SetMultipartFields(
			&resty.MultipartField{
				Param:       "metadata",
				ContentType: "application/json; charset=UTF-8",
				Reader:      bytes.NewReader(meta),
			},
			&resty.MultipartField{
				Param:       "video",
				FileName:    Filename(video.ProductName, "mp4"),
				ContentType: "video/mp4",
				Reader:      bytes.NewReader(video.Video),
			},
		).
		SetResult(&out).
		Post("/videos")
	if err := checkResponse("youtube upload", resp, err); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: youtube upload returned no id", aperrors.ErrUpstream)
	}

	if len(video.Thumbnail) > 0 {
		tresp, terr := y.http.R().
			SetContext(ctx).
			SetQueryParam("videoId", out.ID).
			SetHeader("Content-Type", "image/png").
			SetBody(video.Thumbnail).
			Post("/thumbnails/set")
		if terr := checkResponse("youtube thumbnail", tresp, terr); terr != nil {
			y.logger.Warn().Err(terr).Str("video_id", out.ID).Msg("thumbnail upload failed")
		}
	}

	return &Published{ID: out.ID, URL: "https://www.youtube.com/watch?v=" + out.ID}, nil
}
