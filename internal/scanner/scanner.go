package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kpauljoseph/ankistats/pkg/logger"
)

// CollectionFileName is the database file Anki keeps in each profile
// directory.
const CollectionFileName = "collection.anki2"

// Profile is one Anki profile found under a data directory.
type Profile struct {
	Name           string
	CollectionPath string
}

type ProfileScanner struct {
	log *logger.Logger
}

func New(log *logger.Logger) *ProfileScanner {
	return &ProfileScanner{log: log}
}

// FindCollections walks an Anki data directory, such as
// ~/.local/share/Anki2, and returns every profile holding a collection
// database, sorted by profile name. The profile name is the directory
// the collection file sits in.
func (s *ProfileScanner) FindCollections(ctx context.Context, dir string) ([]Profile, error) {
	var profiles []Profile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() || info.Name() != CollectionFileName {
			return nil
		}

		profile := Profile{
			Name:           filepath.Base(filepath.Dir(path)),
			CollectionPath: path,
		}
		s.log.Debug("Found collection for profile %q: %s", profile.Name, path)
		profiles = append(profiles, profile)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("no Anki collections found in %s or its subdirectories", dir)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})

	return profiles, nil
}
