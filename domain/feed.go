package domain

import "time"

// Feed is a subscribed source whose entries become bookmarks. A feed
// may require a site login before fetching; SiteConfigID points at the
// login configuration to use.
type Feed struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	FeedURL         string     `json:"feedUrl" yaml:"feedUrl"`
	SiteConfigID    string     `json:"siteConfigId,omitempty" yaml:"siteConfigId,omitempty"`
	RefreshInterval int        `json:"refreshIntervalMinutes" yaml:"refreshIntervalMinutes"`
	LastFetchedAt   *time.Time `json:"lastFetchedAt,omitempty" yaml:"lastFetchedAt,omitempty"`
	FailureCount    int        `json:"failureCount" yaml:"failureCount"`
	Disabled        bool       `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// DefaultRefreshInterval applies when a feed does not set its own.
const DefaultRefreshInterval = 60

// RefreshDue reports whether the feed should be fetched again at now.
func (f *Feed) RefreshDue(now time.Time) bool {
	if f.Disabled {
		return false
	}
	if f.LastFetchedAt == nil {
		return true
	}

	interval := f.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return now.Sub(*f.LastFetchedAt) >= time.Duration(interval)*time.Minute
}

type ListFeedsFilter struct {
	IDs          []string `mapstructure:"ids" validate:"omitempty,min=1"`
	SiteConfigID string   `mapstructure:"site_config_id" validate:"omitempty"`
	Disabled     *bool    `mapstructure:"disabled" validate:"omitempty"`
	Size         int      `mapstructure:"size" validate:"omitempty"`
	Offset       int      `mapstructure:"offset" validate:"omitempty"`
}
