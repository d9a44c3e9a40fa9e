package livequery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/evanor/arexxd/internal/sensor"
)

// entry pairs a sensor with its most recent reading.
type entry struct {
	sensor  *sensor.Sensor
	reading sensor.Reading
}

// Cache holds the latest reading per sensor.
//
// The cache is written by the delivery path and read by every
// concurrent client-serving task, so both Update and Snapshot take the
// lock. Last write wins; the cache holds at most one entry per sensor
// ID and insertion order is irrelevant.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[int]entry),
	}
}

// Update upserts the cache entry for the sensor. It cannot fail.
func (c *Cache) Update(r sensor.Reading, s *sensor.Sensor) {
	c.mu.Lock()
	c.entries[s.ID] = entry{sensor: s, reading: r}
	c.mu.Unlock()
}

// Len returns the number of cached sensors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot renders the entire cache as the live-query wire response,
// one line per known sensor:
//
//	displayId,engineeringValue unit,timestamp,signalOrDash,type,name,internalId\n
//
// The engineering value keeps full %f precision on this path. Lines are
// ordered by display ID ascending for deterministic output.
func (c *Cache) Snapshot() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]entry, 0, len(c.entries))
	for _, e := range c.entries {
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].sensor.DisplayID < items[j].sensor.DisplayID
	})

	var b strings.Builder
	for _, e := range items {
		signal := "-"
		if e.reading.Signal != nil {
			signal = strconv.FormatFloat(*e.reading.Signal, 'g', -1, 64)
		}
		fmt.Fprintf(&b, "%d,%f %s,%d,%s,%s,%s,%d\n",
			e.sensor.DisplayID,
			e.sensor.Value(e.reading),
			e.sensor.Unit,
			e.reading.Timestamp,
			signal,
			e.sensor.Type,
			e.sensor.Name,
			e.sensor.ID,
		)
	}
	return b.String()
}
