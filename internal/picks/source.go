// Package picks loads the predictions issued for a date from the prediction store.
package picks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"greenbier/grader/internal/client"
	"greenbier/grader/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrNoPicks means no predictions were published for the date
var ErrNoPicks = errors.New("no picks published for date")

// Source loads the picks for a date
type Source interface {
	Load(ctx context.Context, date string) ([]models.Pick, error)
}

// ObjectName is the blob name holding a date's picks
func ObjectName(date string) string {
	return fmt.Sprintf("predictions-%s.json", date)
}

// BlobSource reads picks from an HTTP-addressable object store container
type BlobSource struct {
	baseURL string
	token   string
	client  *client.Client
}

// NewBlobSource creates a BlobSource. baseURL may carry a signed query string,
// which is preserved on every object URL.
func NewBlobSource(baseURL, token string, c *client.Client) *BlobSource {
	return &BlobSource{baseURL: baseURL, token: token, client: c}
}

func (s *BlobSource) objectURL(date string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid picks base URL: %w", err)
	}
	u.Path = path.Join("/", u.Path, ObjectName(date))
	return u.String(), nil
}

func (s *BlobSource) Load(ctx context.Context, date string) ([]models.Pick, error) {
	objectURL, err := s.objectURL(date)
	if err != nil {
		return nil, err
	}

	var headers map[string]string
	if s.token != "" {
		headers = map[string]string{"Authorization": "Bearer " + s.token}
	}

	body, err := s.client.Get(ctx, objectURL, headers, nil)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, ErrNoPicks
		}
		return nil, fmt.Errorf("failed to fetch picks: %w", err)
	}

	return Parse(body)
}

// DirSource reads picks from a local directory
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Load(ctx context.Context, date string) ([]models.Pick, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, ObjectName(date)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoPicks
		}
		return nil, fmt.Errorf("failed to read picks file: %w", err)
	}
	return Parse(data)
}

// picksEnvelope is the object form of a picks file
type picksEnvelope struct {
	Date  string            `json:"date"`
	Picks []json.RawMessage `json:"picks"`
}

// Parse decodes a picks file, either a bare array or {"date":..,"picks":[..]}.
// Picks that fail to decode, or miss a team or the predicted winner, are dropped.
// Only a file whose outer structure is unreadable is an error.
func Parse(data []byte) ([]models.Pick, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raw []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse picks: %w", err)
		}
	} else {
		var env picksEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to parse picks: %w", err)
		}
		raw = env.Picks
	}

	picks := make([]models.Pick, 0, len(raw))
	for i, elem := range raw {
		var p models.Pick
		if err := json.Unmarshal(elem, &p); err != nil {
			log.Warn().
				Err(err).
				Int("index", i).
				Msg("Skipping malformed pick")
			continue
		}
		if !p.Valid() {
			log.Warn().
				Int("index", i).
				Str("home", p.HomeTeam).
				Str("away", p.AwayTeam).
				Msg("Skipping incomplete pick")
			continue
		}
		picks = append(picks, p)
	}
	return picks, nil
}
