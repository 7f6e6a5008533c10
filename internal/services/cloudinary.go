package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin/search"

	"github.com/AnshRaj112/storylens-backend/internal/config"
)

// searchFunc runs a Cloudinary search expression and returns the first asset URL, or "".
type searchFunc func(ctx context.Context, expression string) (string, error)

// ImageSearchService finds an illustrative image for a mood among the assets stored in Cloudinary.
type ImageSearchService struct {
	search searchFunc
	folder string
	log    *slog.Logger
}

// NewImageSearchService returns a disabled service when credentials are missing; Find then yields "".
func NewImageSearchService(cfg config.CloudinaryConfig, log *slog.Logger) (*ImageSearchService, error) {
	s := &ImageSearchService{folder: cfg.MoodFolder, log: log.With("service", "image_search")}
	if !cfg.Enabled() {
		s.log.Warn("cloudinary not configured, mood images disabled")
		return s, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	s.search = func(ctx context.Context, expression string) (string, error) {
		res, err := cld.Admin.Search(ctx, search.Query{
			Expression: expression,
			MaxResults: 1,
		})
		if err != nil {
			return "", err
		}
		if res.Error.Message != "" {
			return "", errors.New(res.Error.Message)
		}
		if len(res.Assets) == 0 {
			return "", nil
		}
		return res.Assets[0].SecureURL, nil
	}
	return s, nil
}

// Find returns the secure URL of the first image tagged with any word of query.
// An unconfigured service or a query without words yields "" and no error.
func (s *ImageSearchService) Find(ctx context.Context, query string) (string, error) {
	if s == nil || s.search == nil {
		return "", nil
	}
	expr := searchExpression(query, s.folder)
	if expr == "" {
		return "", nil
	}
	url, err := s.search(ctx, expr)
	if err != nil {
		return "", fmt.Errorf("cloudinary search: %w", err)
	}
	return url, nil
}

func searchExpression(query, folder string) string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_'
	})
	if len(words) == 0 {
		return ""
	}

	tags := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		tags = append(tags, "tags="+w)
	}

	expr := "resource_type:image AND (" + strings.Join(tags, " OR ") + ")"
	if folder != "" {
		expr += " AND folder=" + folder
	}
	return expr
}
