// Package main provides a headless demo driver for the solitaire engine:
// it deals a game, auto-plays greedy foundation moves, records the session
// against the guest profile, and prints the aggregate statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ramonehamilton/klondike-engine/internal/config"
	"github.com/ramonehamilton/klondike-engine/internal/deck"
	"github.com/ramonehamilton/klondike-engine/internal/events"
	"github.com/ramonehamilton/klondike-engine/internal/game"
	"github.com/ramonehamilton/klondike-engine/internal/profile"
	"github.com/ramonehamilton/klondike-engine/internal/storage"
	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
	"github.com/ramonehamilton/klondike-engine/internal/version"
)

var (
	variantName = flag.String("variant", "french", "Deck variant (french or neapolitan)")
	drawCount   = flag.Int("draw", 1, "Cards per stock draw (1 or 3)")
	difficulty  = flag.Int("difficulty", 1, "Difficulty level 1-5")
	dataDir     = flag.String("data-dir", "", "Data directory (default: ~/.klondike-engine)")
	maxActions  = flag.Int("max-actions", 500, "Action budget before abandoning the game")
	showVersion = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("klondike %s (game version %s)\n", version.GetVersion(), models.GameVersion)
		return
	}

	appCfg, err := config.LoadApp()
	if err != nil {
		log.Fatalf("Failed to load app config: %v", err)
	}
	if *dataDir != "" {
		appCfg.Data.Dir = *dataDir
	}
	dir, err := appCfg.DataDir()
	if err != nil {
		log.Fatalf("Failed to resolve data directory: %v", err)
	}

	scoringCfg, err := config.LoadScoring(appCfg.Data.ScoringConfig)
	if err != nil {
		log.Fatalf("Invalid scoring config: %v", err)
	}

	store, err := storage.NewProfileStore(dir)
	if err != nil {
		log.Fatalf("Failed to open profile store: %v", err)
	}

	var archive *storage.Archive
	if !appCfg.Data.ArchiveOff {
		archivePath := appCfg.Data.ArchiveDB
		if archivePath == "" {
			archivePath = filepath.Join(dir, "sessions.db")
		}
		archive, err = storage.OpenArchive(archivePath)
		if err != nil {
			log.Printf("Session archive unavailable: %v", err)
		} else {
			defer func() {
				if closeErr := archive.Close(); closeErr != nil {
					log.Printf("Failed to close archive: %v", closeErr)
				}
			}()
		}
	}

	profiles, err := profile.NewService(store, archive)
	if err != nil {
		log.Fatalf("Failed to initialize profiles: %v", err)
	}

	if marker := profiles.CheckDirtyShutdown(); marker != nil {
		fmt.Printf("Previous session %s did not end cleanly.\n", marker.SessionID)
	}

	dispatcher := events.NewDispatcher()
	dispatcher.Register(&consoleAnnouncer{})

	svc := game.NewService(game.Options{
		ProfileID:      profiles.Active().ID,
		Variant:        deck.ByName(deck.VariantName(*variantName)),
		DrawCount:      *drawCount,
		Difficulty:     *difficulty,
		ScoringEnabled: true,
	}, scoringCfg, dispatcher)

	svc.OnEnd(func(outcome *models.SessionOutcome) {
		if err := profiles.RecordSession(outcome); err != nil {
			log.Printf("Failed to record session: %v", err)
		}
	})
	profiles.BeginSession(svc.SessionID(), svc.StartTime())

	autoplay(svc, *maxActions)

	global := profiles.ActiveStats().Global
	fmt.Printf("\nProfile %s: %d games, %d victories, winrate %.0f%%\n",
		profiles.Active().ID, global.TotalGames, global.TotalVictories, global.WinRate*100)
	os.Exit(0)
}

// autoplay runs a simple greedy strategy: move everything it can to the
// foundations, otherwise draw, until it wins or runs out of budget.
func autoplay(svc *game.Service, budget int) {
	stalls := 0
	for i := 0; i < budget && !svc.Ended(); i++ {
		if ok, _ := svc.AutoMoveToFoundation(); ok {
			stalls = 0
			continue
		}
		if ok, _ := svc.DrawCards(1); !ok {
			stalls++
		}
		// Give up once drawing stops making progress.
		if stalls > 2 {
			break
		}
	}
	if !svc.Ended() {
		svc.EndGame(models.EndAbandonExit)
	}
}

// consoleAnnouncer prints announce notifications to stdout.
type consoleAnnouncer struct{}

func (c *consoleAnnouncer) AnnounceMove(success bool, message string) {
	if success {
		fmt.Printf("  %s\n", message)
	}
}

func (c *consoleAnnouncer) AnnounceCard(card deck.Card) {
	fmt.Printf("  revealed %s\n", card)
}

func (c *consoleAnnouncer) AnnounceVictory(moves int, elapsed time.Duration) {
	fmt.Printf("Victory in %d moves after %s!\n", moves, elapsed.Round(time.Second))
}

func (c *consoleAnnouncer) AnnounceError(message string) {
	fmt.Fprintf(os.Stderr, "error: %s\n", message)
}

func (c *consoleAnnouncer) Name() string { return "console" }
