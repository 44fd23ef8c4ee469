package models

import (
	"strings"
	"unicode/utf8"
)

type ClaimStatus string

const (
	ClaimUnclaimed ClaimStatus = "unclaimed"
	ClaimPending   ClaimStatus = "pending"
	ClaimClaimed   ClaimStatus = "claimed"
)

// Coach is a directory profile. Rating and ReviewCount are derived from
// Reviews and must only be changed through RecomputeRating.
type Coach struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Handle       string      `json:"handle"`
	Category     string      `json:"category"`
	Country      string      `json:"country,omitempty"`
	Avatar       string      `json:"avatar"`
	Rating       float64     `json:"rating"`
	ReviewCount  int         `json:"reviewCount"`
	Location     string      `json:"location"`
	Bio          string      `json:"bio"`
	Website      string      `json:"website,omitempty"`
	Reviews      []Review    `json:"reviews"`
	Claimed      *bool       `json:"claimed,omitempty"`
	ClaimStatus  ClaimStatus `json:"claim_status,omitempty"`
	OwnerCoachID string      `json:"owner_coach_id,omitempty"`
}

func (c *Coach) IsClaimed() bool {
	return c.Claimed != nil && *c.Claimed
}

func (c *Coach) MarkClaimed(ownerID string) {
	claimed := true
	c.Claimed = &claimed
	c.ClaimStatus = ClaimClaimed
	c.OwnerCoachID = ownerID
}

func (c *Coach) OwnedBy(accountID string) bool {
	return accountID != "" && c.OwnerCoachID == accountID
}

// Clone returns a deep copy, so callers can mutate it without touching a
// loaded collection.
func (c Coach) Clone() Coach {
	out := c
	if c.Reviews != nil {
		out.Reviews = make([]Review, len(c.Reviews))
		copy(out.Reviews, c.Reviews)
	}
	if c.Claimed != nil {
		claimed := *c.Claimed
		out.Claimed = &claimed
	}
	return out
}

func (c *Coach) ReviewIndex(reviewID string) int {
	for i := range c.Reviews {
		if c.Reviews[i].ID == reviewID {
			return i
		}
	}
	return -1
}

// PrependReview inserts the review at the head of the list and re-derives the
// aggregate fields.
func (c *Coach) PrependReview(r Review) {
	c.Reviews = append([]Review{r}, c.Reviews...)
	c.RecomputeRating()
}

// RecomputeRating derives ReviewCount and Rating from the full review list.
// The mean is rounded half-up to one decimal in integer tenths, so 4.45 is
// always 4.5 regardless of float representation.
func (c *Coach) RecomputeRating() {
	c.ReviewCount = len(c.Reviews)
	if c.ReviewCount == 0 {
		c.Rating = 0
		return
	}
	sum := 0
	for _, r := range c.Reviews {
		sum += r.Rating
	}
	n := c.ReviewCount
	tenths := (sum*20 + n) / (2 * n)
	c.Rating = float64(tenths) / 10
}

// AvatarFor returns the first two letters of name, upper-cased.
func AvatarFor(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= 2 {
		return strings.ToUpper(name)
	}
	runes := []rune(name)
	return strings.ToUpper(string(runes[:2]))
}
