package acceptance

import (
	"fmt"
	"os"
	"path/filepath"
)

// GoldenStore keeps full rendered reports under a testdata directory so
// acceptance runs can compare whole documents instead of fragments.
type GoldenStore struct {
	dir           string
	updateGoldens bool
}

func NewGoldenStore(testDataPath string) *GoldenStore {
	return &GoldenStore{
		dir:           testDataPath,
		updateGoldens: os.Getenv("UPDATE_TEST_DATA") == "true",
	}
}

// Path returns where the golden report for name lives on disk.
func (s *GoldenStore) Path(name string) string {
	return filepath.Join(s.dir, name+".golden.html")
}

// Expected returns the stored report for name. In update mode it first
// replaces the stored report with actual, so an intended rendering
// change is blessed by rerunning the suite with UPDATE_TEST_DATA=true
// and reviewing the diff.
func (s *GoldenStore) Expected(name string, actual []byte) ([]byte, error) {
	if s.updateGoldens {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create testdata directory: %w", err)
		}
		if err := os.WriteFile(s.Path(name), actual, 0644); err != nil {
			return nil, fmt.Errorf("failed to update golden file: %w", err)
		}
		return actual, nil
	}

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no golden file for %q; run with UPDATE_TEST_DATA=true to record one", name)
		}
		return nil, fmt.Errorf("failed to read golden file: %w", err)
	}
	return data, nil
}

func (s *GoldenStore) IsUpdateMode() bool {
	return s.updateGoldens
}
