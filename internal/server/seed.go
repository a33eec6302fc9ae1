package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avask/game-collection/internal/service"
)

// Demo account credentials. Only ever inserted into an empty database, and
// only when SeedDemoData is on — never in a deployment with real users.
const (
	demoUsername = "admin"
	demoEmail    = "admin@example.com"
	demoPassword = "admin123"
)

// seedDemoData inserts a demo account and a couple of games so a fresh
// install has something to show. Idempotent: if any user exists the database
// has been seeded (or used for real) and we leave it alone.
func (s *Server) seedDemoData(ctx context.Context) error {
	hasUsers, err := s.db.HasUsers(ctx)
	if err != nil {
		return fmt.Errorf("checking for existing users: %w", err)
	}
	if hasUsers {
		return nil
	}

	admin, err := s.accounts.Register(ctx, demoUsername, demoEmail, demoPassword)
	if err != nil {
		return fmt.Errorf("creating demo account: %w", err)
	}

	drafts := []service.GameDraft{
		{
			Title:         "The Witcher 3: Wild Hunt",
			Genre:         "RPG, Action",
			Developer:     "CD Projekt Red",
			ReleaseYear:   2015,
			PlaytimeHours: 100,
			Description:   "An epic open-world RPG following Geralt of Rivia on his hunt for the Child of Prophecy.",
			Platforms:     "PC, PlayStation, Xbox, Switch",
			Requirements:  "Intel Core i5-2500K, 6 GB RAM, GeForce GTX 660",
			Instructions:  "Follow the main quest or roam the world — contracts and question marks are everywhere.",
			Rating:        9.7,
		},
		{
			Title:         "Cyberpunk 2077",
			Genre:         "Action RPG",
			Developer:     "CD Projekt Red",
			ReleaseYear:   2020,
			PlaytimeHours: 60,
			Description:   "A first-person RPG set in Night City, a megalopolis obsessed with power, glamour and body modification.",
			Platforms:     "PC, PlayStation, Xbox",
			Requirements:  "Intel Core i7-6700, 12 GB RAM, GeForce GTX 1060",
			Instructions:  "Pick a lifepath and build V however you like — netrunner, solo, or something in between.",
			Rating:        8.5,
		},
	}

	for _, draft := range drafts {
		if _, err := s.catalog.Create(ctx, draft, admin.ID); err != nil {
			return fmt.Errorf("creating demo game %q: %w", draft.Title, err)
		}
	}

	s.logger.Info("seeded demo data",
		slog.String("username", demoUsername),
		slog.Int("games", len(drafts)),
	)
	return nil
}
