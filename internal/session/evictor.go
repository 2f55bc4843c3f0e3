// evictor.go houses the eviction loop for Store.  Every EvictInterval it
// scans the map and removes:
//
//   - sessions idle longer than idleTTL
//   - least-recently-used sessions when the map exceeds maxEntries
//
// Each eviction is logged and updates Prometheus counters.
package session

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/yanizio/survey/internal/metrics"
)

func (s *Store) evictLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case <-s.evictTicker.C:
			s.evict(s.now())
		}
	}
}

// evict runs one idle pass and one LRU pass.
func (s *Store) evict(now time.Time) {
	var count int

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	s.m.Range(func(key, value any) bool {
		ent := value.(*Entry)
		idle := time.Duration(now.UnixNano() - atomic.LoadInt64(&ent.lastSeen))
		if idle > s.idleTTL && s.Delete(key.(string)) {
			s.log.Debugw("session evicted", "session", key, "idle", idle.Truncate(time.Second))
			metrics.SessionEvictTotal.WithLabelValues("idle").Inc()
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if count <= s.maxEntries {
		return
	}
	type kv struct {
		key string
		at  int64
	}
	all := make([]kv, 0, count)
	s.m.Range(func(key, value any) bool {
		all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&value.(*Entry).lastSeen)})
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
	for i := 0; i < len(all)-s.maxEntries; i++ {
		if s.Delete(all[i].key) {
			s.log.Debugw("session evicted (LRU pressure)", "session", all[i].key)
			metrics.SessionEvictTotal.WithLabelValues("lru").Inc()
		}
	}
}
