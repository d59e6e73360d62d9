package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nikhilr612/alesia/game/service"
	"github.com/nikhilr612/alesia/transport/websocket"
)

// worldSyncRoutine periodically reloads world files whose modification time
// changed and notifies WebSocket subscribers of the new revision.
func worldSyncRoutine(ctx context.Context, dir string, interval time.Duration, worldService service.WorldService, hub *websocket.Hub) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := make(map[string]time.Time)
	if _, err := changedWorlds(dir, seen); err != nil {
		log.Printf("World sync: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		changed, err := changedWorlds(dir, seen)
		if err != nil {
			log.Printf("World sync: %v", err)
			continue
		}

		for _, id := range changed {
			detail, err := worldService.ReloadWorld(ctx, id)
			if err != nil {
				log.Printf("World sync: reload %s failed: %v", id, err)
				continue
			}
			log.Printf("World sync: reloaded %s (revision %s)", id, detail.Revision)
			hub.BroadcastWorld(detail.ID, detail.Revision, websocket.EventWorldReloaded, detail.WorldInfo)
		}
	}
}

// changedWorlds returns the sorted ids of worlds whose file or manifest is
// new or changed since the last call, recording modification times in seen.
// Files that disappeared are forgotten.
func changedWorlds(dir string, seen map[string]time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	current := make(map[string]time.Time)
	for _, e := range entries {
		name := e.Name()
		ext := filepath.Ext(name)
		if e.IsDir() || (ext != ".alw" && ext != ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		current[name] = info.ModTime()
	}

	var changed []string
	marked := make(map[string]bool)
	for name, mod := range current {
		prev, ok := seen[name]
		seen[name] = mod
		if ok && prev.Equal(mod) {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if _, hasWorld := current[id+".alw"]; !hasWorld || marked[id] {
			continue
		}
		marked[id] = true
		changed = append(changed, id)
	}

	for name := range seen {
		if _, ok := current[name]; !ok {
			delete(seen, name)
		}
	}

	sort.Strings(changed)
	return changed, nil
}
