package trustlist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/zyedidia/generic/mapset"
)

// CuratedList is the file-backed known-token registry: chain id mapped
// to asset id mapped to display metadata. The file is maintained out of
// band and reloaded on an interval, so membership may lag the list on
// disk but never blocks a read.
type CuratedList struct {
	path string

	mu      sync.RWMutex
	members mapset.Set[string]
}

type curatedFile struct {
	Schema int                                `json:"schema"`
	Chains map[string]map[string]curatedEntry `json:"chains"`
}

type curatedEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
}

func NewCuratedList(path string) *CuratedList {
	return &CuratedList{
		path:    path,
		members: mapset.New[string](),
	}
}

func (l *CuratedList) Load() error {
	b, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read curated list: %w", err)
	}

	var f curatedFile
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("unmarshal curated list: %w", err)
	}

	members := mapset.New[string]()
	for chain, assets := range f.Chains {
		for asset := range assets {
			members.Put(NewAssetKey(chain, asset).String())
		}
	}

	l.mu.Lock()
	l.members = members
	l.mu.Unlock()

	return nil
}

func (l *CuratedList) IsKnown(key AssetKey) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.members.Has(key.String())
}

func (l *CuratedList) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.members.Size()
}

func (s *Server) LoopCuratedList(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.ReloadInterval):
		}

		if err := s.curated.Load(); err != nil {
			slog.Error("reload curated list failed", slog.Any("err", err))
			continue
		}

		slog.Info("curated list reloaded", slog.Int("tokens", s.curated.Size()))
	}
}
