package domain

// Lookup outcomes recorded in the lookup log.
const (
	OutcomeFound        = "found"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidInput = "invalid_input"
)

// LookupRecord is a single persisted lookup request. It carries the request
// and its outcome only, never fetched profile data.
type LookupRecord struct {
	PK        string
	SK        string
	LookupID  string
	ChatID    string
	Input     string
	SteamID   string
	Outcome   string
	CreatedAt string
	TTL       int64
}
