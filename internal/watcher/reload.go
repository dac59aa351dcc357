package watcher

import (
	"fmt"

	"github.com/geoview/geoview/internal/catalog"
	"github.com/geoview/geoview/internal/graph"
	"github.com/geoview/geoview/internal/storage"
)

// Snapshot is one consistent view of the collection: the store and the
// graph built from it.
type Snapshot struct {
	Store *catalog.Store
	Graph *graph.GraphData
}

// Load reads articles.jsonl and builds a fresh snapshot.
func Load(articlesPath string, sizes graph.SizeOptions) (*Snapshot, error) {
	articles, err := storage.ReadAll(articlesPath)
	if err != nil {
		return nil, fmt.Errorf("reloading articles: %w", err)
	}
	store, err := catalog.New(articles)
	if err != nil {
		return nil, fmt.Errorf("reloading articles: %w", err)
	}
	return &Snapshot{Store: store, Graph: graph.Build(articles, sizes)}, nil
}

// ReloadFunc returns an OnChange callback that loads a new snapshot and
// hands it to apply. Load failures go to onErr and leave the previous
// snapshot in place.
func ReloadFunc(articlesPath string, sizes graph.SizeOptions, apply func(*Snapshot), onErr func(error)) func() {
	return func() {
		snap, err := Load(articlesPath, sizes)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		apply(snap)
	}
}
