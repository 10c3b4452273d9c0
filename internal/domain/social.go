package domain

import (
	"fmt"
	"strings"
	"time"
)

type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
)

// Platforms is the fixed set, in display order.
var Platforms = []Platform{PlatformYouTube, PlatformInstagram, PlatformTwitter, PlatformTikTok}

func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

func (p Platform) Title() string {
	switch p {
	case PlatformYouTube:
		return "YouTube"
	case PlatformInstagram:
		return "Instagram"
	case PlatformTwitter:
		return "Twitter"
	case PlatformTikTok:
		return "TikTok"
	default:
		return string(p)
	}
}

type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateAwaitingProviderRedirect
	StateFinalizing
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateAwaitingProviderRedirect:
		return "awaiting provider"
	case StateFinalizing:
		return "finalizing"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// PendingAuthorization marks an OAuth flow waiting for the provider redirect.
type PendingAuthorization struct {
	Scope     string    `json:"scope"`
	Platform  Platform  `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (p PendingAuthorization) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

type GalleryClip struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Score       float64             `json:"score"`
	Filename    string              `json:"filename"`
	SocialRefs  map[Platform]string `json:"social_refs,omitempty"`
	CreatedAt   string              `json:"created_at,omitempty"`
}

type PublishResult struct {
	Platform Platform
	Success  bool
	Link     string
	Message  string
}
