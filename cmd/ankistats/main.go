package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/kpauljoseph/ankistats/internal/anki"
	"github.com/kpauljoseph/ankistats/internal/collection"
	"github.com/kpauljoseph/ankistats/internal/config"
	"github.com/kpauljoseph/ankistats/internal/report"
	"github.com/kpauljoseph/ankistats/internal/stats"
	"github.com/kpauljoseph/ankistats/pkg/logger"
	"github.com/kpauljoseph/ankistats/pkg/models"
	"github.com/kpauljoseph/ankistats/pkg/updater"
	"github.com/kpauljoseph/ankistats/pkg/version"
	"os"
	"strconv"
	"time"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	collectionPath := flag.String("collection", "", "path to the Anki collection database (overrides config)")
	deckID := flag.String("deck-id", "", "id of the deck to report on (overrides config)")
	deckName := flag.String("deck-name", "", "name of the deck to report on, resolved via the deck registry (overrides config)")
	templatePath := flag.String("template", "", "path to the report template (overrides config)")
	outputPath := flag.String("output", "", "path of the generated report (overrides config)")
	ankiConnect := flag.Bool("anki-connect", false, "read the deck from a running Anki instance via AnkiConnect instead of a collection file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	checkUpdate := flag.Bool("check-update", false, "check for a newer release and exit")
	flag.Parse()

	if *showVersion {
		if *verbose {
			fmt.Println(version.GetDetailedVersionInfo())
		} else {
			fmt.Println(version.GetVersionInfo())
		}
		return
	}

	logOptions := []logger.Option{
		logger.WithPrefix("[ankistats] "),
	}

	log := logger.New(logOptions...)
	log.SetVerbose(*verbose)

	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	if *verbose {
		log.Debug("Verbose logging enabled")
	}

	if *checkUpdate {
		info, err := updater.NewChecker(log).CheckForUpdates()
		if err != nil {
			log.Fatal("Error checking for updates: %v", err)
		}
		if info.IsAvailable {
			fmt.Printf("Update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			fmt.Println(info.DownloadURL)
		} else {
			fmt.Println("ankistats is up to date")
		}
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal("Error loading config: %v", err)
		}
	}

	if *collectionPath != "" {
		cfg.CollectionPath = *collectionPath
	}
	if *deckID != "" {
		cfg.DeckID = *deckID
	}
	if *deckName != "" {
		cfg.DeckName = *deckName
	}
	if *templatePath != "" {
		cfg.TemplatePath = *templatePath
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}
	if *ankiConnect {
		cfg.AnkiConnect = true
	}

	if !cfg.AnkiConnect && cfg.CollectionPath == "" {
		log.Fatal("collection path is required (use -collection or collection_path in the config file)")
	}
	if cfg.DeckID == "" && cfg.DeckName == "" {
		log.Fatal("a deck is required (use -deck-id/-deck-name or deck_id/deck_name in the config file)")
	}

	ctx := context.Background()

	var cards []models.Card
	var deckLabel string

	if cfg.AnkiConnect {
		if cfg.DeckName == "" {
			log.Fatal("a deck name is required with AnkiConnect (use -deck-name or deck_name in the config file)")
		}
		deckLabel = cfg.DeckName

		service := anki.NewService(log)
		if err := service.CheckConnection(ctx); err != nil {
			log.Fatal("Error connecting to Anki: %v", err)
		}

		var err error
		cards, err = service.DeckCards(ctx, cfg.DeckName)
		if err != nil {
			log.Fatal("Error reading deck %q from Anki: %v", cfg.DeckName, err)
		}
	} else {
		store, err := collection.Open(cfg.CollectionPath, log)
		if err != nil {
			log.Fatal("Error opening collection: %v", err)
		}
		defer store.Close()

		if cfg.DeckID == "" {
			id, err := store.ResolveDeck(ctx, cfg.DeckName)
			if err != nil {
				log.Fatal("Error resolving deck %q: %v", cfg.DeckName, err)
			}
			cfg.DeckID = strconv.FormatInt(id, 10)
			log.Debug("Resolved deck %q to id %s", cfg.DeckName, cfg.DeckID)
		}
		deckLabel = cfg.DeckID

		records, err := store.DeckCards(ctx, cfg.DeckID)
		if err != nil {
			log.Fatal("Error reading deck %s: %v", cfg.DeckID, err)
		}

		cards, err = collection.ExtractCards(records)
		if err != nil {
			log.Fatal("Error extracting cards from deck %s: %v", cfg.DeckID, err)
		}
	}

	deckStats := stats.Collect(cards)
	fmt.Println(deckStats.Summary())

	tmpl, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		log.Fatal("Error reading template %s: %v", cfg.TemplatePath, err)
	}

	tokens := report.BuildTokens(deckStats, report.CardListHTML(cards), time.Now())
	rendered := report.RenderTemplate(string(tmpl), tokens)

	if err := os.WriteFile(cfg.OutputPath, []byte(rendered), 0644); err != nil {
		log.Fatal("Error writing report %s: %v", cfg.OutputPath, err)
	}

	log.Info("Report for deck %s written to %s", deckLabel, cfg.OutputPath)
	log.Info("- Cards total: %d", deckStats.Total)
	log.Info("- Cards learned: %d", deckStats.Learned)
}
