package domain

import "time"

// Cause is an organization, initiative or project that can receive shares.
// For ledger purposes it behaves like a user and owns one account.
type Cause struct {
	ID          string
	Name        string
	Handle      string
	Description string
	AccountID   string
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TagNames returns the names of the cause's tags in order.
func (c *Cause) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Tag labels causes.
type Tag struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Bookmark records that a user saved a cause.
type Bookmark struct {
	ID        string
	UserID    string
	CauseID   string
	Cause     *Cause
	CreatedAt time.Time
	UpdatedAt time.Time
}
