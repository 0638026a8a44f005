package service

import (
	"database/sql"

	"github.com/cuixiaoyuan/fundflow/internal/config"
	"github.com/cuixiaoyuan/fundflow/internal/database"
)

// SystemService handles health checks and public settings echo.
type SystemService struct {
	db  *sql.DB
	cfg *config.Config
}

// NewSystemService creates a new SystemService.
func NewSystemService(db *sql.DB, cfg *config.Config) *SystemService {
	return &SystemService{db: db, cfg: cfg}
}

// CheckHealth verifies database connectivity.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// PublicSettings are the non-secret settings exposed by the health
// endpoint so clients can build feed URLs without hardcoding them.
type PublicSettings struct {
	PublicDomain string `json:"publicDomain"`
	FeedPrefix   string `json:"feedPrefix"`
	RateLimit    int    `json:"rateLimit"`
	RateWindowS  int    `json:"rateWindowSeconds"`
}

// Settings returns the public settings echo.
func (s *SystemService) Settings() PublicSettings {
	return PublicSettings{
		PublicDomain: s.cfg.Feed.PublicDomain,
		FeedPrefix:   s.cfg.Feed.Prefix,
		RateLimit:    s.cfg.Feed.RateLimit,
		RateWindowS:  int(s.cfg.Feed.RateWindow.Seconds()),
	}
}
