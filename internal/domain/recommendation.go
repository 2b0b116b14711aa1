package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ResponseShape selects how endpoint labels are rendered into the response body.
type ResponseShape string

const (
	// ShapeItemList renders {"itemList":[{"itemId":"12"}]}.
	ShapeItemList ResponseShape = "itemList"
	// ShapeMovies is the legacy pass-through shape {"movies":[12]}.
	ShapeMovies ResponseShape = "movies"
)

func ParseResponseShape(s string) (ResponseShape, error) {
	switch ResponseShape(s) {
	case "", ShapeItemList:
		return ShapeItemList, nil
	case ShapeMovies:
		return ShapeMovies, nil
	}
	return "", fmt.Errorf("unknown response shape %q", s)
}

type Item struct {
	ItemID string `json:"itemId"`
}

type ItemListResponse struct {
	ItemList []Item `json:"itemList"`
}

type MoviesResponse struct {
	Movies []json.RawMessage `json:"movies"`
}

type RecommendationResult struct {
	UserID   int64
	Body     []byte
	ItemIDs  []string
	CacheHit bool
}

// RecommendationLog is one row of the recommendation_log table.
type RecommendationLog struct {
	UserID       int64
	EndpointName string
	ItemIDs      []string
	CreatedAt    time.Time
}
