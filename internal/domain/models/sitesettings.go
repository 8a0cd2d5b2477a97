package models

// DefaultSiteName is the site name used when none is configured.
const DefaultSiteName = "CivicHub"
