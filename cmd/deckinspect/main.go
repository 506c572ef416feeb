package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/kpauljoseph/ankistats/internal/collection"
	"github.com/kpauljoseph/ankistats/internal/scanner"
	"github.com/kpauljoseph/ankistats/pkg/logger"
	"os"
)

func main() {
	collectionPath := flag.String("collection", "", "Path to Anki collection database")
	ankiDir := flag.String("anki-dir", "", "Anki data directory to scan for profile collections")
	flag.Parse()

	if *collectionPath == "" && *ankiDir == "" {
		fmt.Println("Please provide a collection path using -collection flag or a data directory using -anki-dir flag")
		os.Exit(1)
	}

	log := logger.New(logger.WithPrefix("[deckinspect] "))
	ctx := context.Background()

	if *ankiDir != "" {
		profiles, err := scanner.New(log).FindCollections(ctx, *ankiDir)
		if err != nil {
			fmt.Printf("Error scanning %s: %v\n", *ankiDir, err)
			os.Exit(1)
		}

		for _, profile := range profiles {
			fmt.Printf("\nProfile %s (%s):\n", profile.Name, profile.CollectionPath)
			if err := inspectCollection(ctx, profile.CollectionPath, log); err != nil {
				fmt.Printf("Error inspecting collection: %v\n", err)
			}
		}
		return
	}

	fmt.Printf("Inspecting collection: %s\n", *collectionPath)
	if err := inspectCollection(ctx, *collectionPath, log); err != nil {
		fmt.Printf("Error inspecting collection: %v\n", err)
		os.Exit(1)
	}
}

func inspectCollection(ctx context.Context, path string, log *logger.Logger) error {
	store, err := collection.Open(path, log)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.DeckSummaries(ctx)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No cards found in collection")
		return nil
	}

	// Deck names only exist in legacy collections; ids alone still
	// identify the deck to pass to ankistats.
	names, err := store.DeckNames(ctx)
	if err != nil {
		names = map[int64]string{}
	}

	for _, summary := range summaries {
		name := names[summary.DeckID]
		if name == "" {
			fmt.Printf("\nDeck %d:\n", summary.DeckID)
		} else {
			fmt.Printf("\nDeck %d (%s):\n", summary.DeckID, name)
		}
		fmt.Printf("Cards: %d\n", summary.Cards)
	}
	return nil
}
