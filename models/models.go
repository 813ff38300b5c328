package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// --- Search context ---

// SearchContext is the resolved category/flavor/brand the user is analysing.
type SearchContext struct {
	Category         string  `json:"category"`
	Flavor           string  `json:"flavor"`
	Brand            string  `json:"brand"`
	StandardVolumeML float64 `json:"standardVolumeMl"`
}

// SearchKeyword is the free-text query sent to the commerce search: brand
// first, then flavor.
func (s SearchContext) SearchKeyword() string {
	switch {
	case s.Brand != "" && s.Flavor != "":
		return s.Brand + " " + s.Flavor
	case s.Brand != "":
		return s.Brand
	default:
		return s.Flavor
	}
}

// KeywordGroup is one named group of keywords for the trend provider.
type KeywordGroup struct {
	GroupName string   `json:"groupName"`
	Keywords  []string `json:"keywords"`
}
