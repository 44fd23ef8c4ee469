package services

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"trustive/internal/models"
	"trustive/internal/structures"
)

type seedReview struct {
	ID       string `yaml:"id"`
	Author   string `yaml:"author"`
	Rating   int    `yaml:"rating"`
	Date     string `yaml:"date"`
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Verified bool   `yaml:"verified"`
	Location string `yaml:"location"`
}

type seedCoach struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Handle   string       `yaml:"handle"`
	Category string       `yaml:"category"`
	Country  string       `yaml:"country"`
	Avatar   string       `yaml:"avatar"`
	Location string       `yaml:"location"`
	Bio      string       `yaml:"bio"`
	Website  string       `yaml:"website"`
	Reviews  []seedReview `yaml:"reviews"`
}

type seedFile struct {
	Coaches []seedCoach `yaml:"coaches"`
}

// LoadSeedFile reads initial directory entries from a YAML fixture. Derived
// fields are always recomputed, whatever the file says.
func LoadSeedFile(path string) ([]models.Coach, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	coaches := make([]models.Coach, 0, len(sf.Coaches))
	for _, sc := range sf.Coaches {
		if sc.ID == "" || sc.Name == "" {
			return nil, fmt.Errorf("seed file %s: coach entries need id and name", path)
		}
		c := models.Coach{
			ID:          sc.ID,
			Name:        sc.Name,
			Handle:      sc.Handle,
			Category:    sc.Category,
			Country:     sc.Country,
			Avatar:      sc.Avatar,
			Location:    sc.Location,
			Bio:         sc.Bio,
			Website:     sc.Website,
			Reviews:     make([]models.Review, 0, len(sc.Reviews)),
			ClaimStatus: models.ClaimUnclaimed,
		}
		if c.Avatar == "" {
			c.Avatar = models.AvatarFor(c.Name)
		}
		for _, sr := range sc.Reviews {
			c.Reviews = append(c.Reviews, models.Review{
				ID:       sr.ID,
				Author:   sr.Author,
				Rating:   sr.Rating,
				Date:     sr.Date,
				Title:    sr.Title,
				Content:  sr.Content,
				Verified: sr.Verified,
				Location: sr.Location,
			})
		}
		c.RecomputeRating()
		coaches = append(coaches, c)
	}
	return coaches, nil
}

// ProvideSeed returns the fixture named by directory.seedFile, or the
// built-in directory when none is configured.
func ProvideSeed(conf *structures.Config) ([]models.Coach, error) {
	if conf.Directory.SeedFile == "" {
		return DefaultCoaches(), nil
	}
	return LoadSeedFile(conf.Directory.SeedFile)
}

// DefaultCoaches is the directory a fresh storage origin starts with.
func DefaultCoaches() []models.Coach {
	coaches := []models.Coach{
		{
			ID:       "coach-1",
			Name:     "Alex Rivera",
			Handle:   "@arivera_trades",
			Category: "Forex & Crypto",
			Country:  "USA",
			Avatar:   "AR",
			Location: "Los Angeles, CA",
			Bio:      "Helping busy professionals consistently profit from the markets without staring at charts all day.",
			Website:  "https://alexriveratrades.com",
			Reviews: []models.Review{
				{
					ID:       "r1",
					Author:   "Sarah M.",
					Rating:   5,
					Date:     "2 days ago",
					Title:    "Changed my portfolio!",
					Content:  "I've tried every strategy out there. Alex's approach is the only one that works. He's supportive but holds you accountable.",
					Verified: true,
					Location: "New York, NY",
				},
				{
					ID:       "r2",
					Author:   "James K.",
					Rating:   4,
					Date:     "1 week ago",
					Title:    "Great signals, slow alerts",
					Content:  "The trade setups are top notch. The discord he uses is a bit glitchy sometimes, but the mentorship itself is solid.",
					Verified: true,
					Location: "Chicago, IL",
				},
			},
		},
		{
			ID:       "coach-2",
			Name:     "Crypto Queen",
			Handle:   "@cryptoqueen_pro",
			Category: "Altcoins & DeFi",
			Country:  "USA",
			Avatar:   "CQ",
			Location: "Austin, TX",
			Bio:      "Specializing in helping beginners navigate DeFi safely. Rugpull-proof strategies.",
			Website:  "https://cryptoqueen.com",
			Reviews: []models.Review{
				{
					ID:       "r3",
					Author:   "Emily R.",
					Rating:   5,
					Date:     "3 days ago",
					Title:    "Finally profitable again",
					Content:  "After my second liquidation, I thought I'd never trade again. 6 months in and I'm up 300%.",
					Verified: true,
					Location: "Seattle, WA",
				},
			},
		},
		{
			ID:       "coach-3",
			Name:     "David Chen",
			Handle:   "@dchen_capital",
			Category: "Day Trading",
			Country:  "UK",
			Avatar:   "DC",
			Location: "London, UK",
			Bio:      "Trade fast, profit heavy. Day trading for the modern market.",
			Reviews: []models.Review{
				{
					ID:       "r4",
					Author:   "Tom B.",
					Rating:   2,
					Date:     "2 months ago",
					Title:    "Ghosted me",
					Content:  "Paid for 3 months, heard from him twice. Great signals but zero communication.",
					Verified: false,
					Location: "Manchester, UK",
				},
			},
		},
	}
	for i := range coaches {
		coaches[i].ClaimStatus = models.ClaimUnclaimed
		coaches[i].RecomputeRating()
	}
	return coaches
}

func cloneCoaches(in []models.Coach) []models.Coach {
	out := make([]models.Coach, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
