package render

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
)

// DefaultCacheMB is the cache budget when none is configured.
const DefaultCacheMB = 8

// CacheKey identifies one rendered frame.
type CacheKey struct {
	Protocol  string
	Cols      int
	Rows      int
	ImageHash [32]byte
}

// String returns a short key for logs.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%dx%d:%x", k.Protocol, k.Cols, k.Rows, k.ImageHash[:6])
}

// CacheStats reports cache usage.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	SizeBytes int64
}

type cacheEntry struct {
	key   CacheKey
	value string
}

// Cache is a byte-bounded LRU of rendered escape strings. A ring that has
// not moved a whole pixel since the last frame rasterizes identically, so
// most frames at low interval resolution are hits.
type Cache struct {
	mu        sync.Mutex
	items     map[CacheKey]*list.Element
	order     *list.List // front is most recent
	maxBytes  int64
	usedBytes int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache creates a cache holding at most maxMB megabytes of output.
func NewCache(maxMB int) *Cache {
	if maxMB <= 0 {
		maxMB = DefaultCacheMB
	}
	return &Cache{
		items:    make(map[CacheKey]*list.Element),
		order:    list.New(),
		maxBytes: int64(maxMB) << 20,
	}
}

// Get returns the cached value for key and promotes it.
func (c *Cache) Get(key CacheKey) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	c.order.MoveToFront(elem)
	c.hits.Add(1)
	return elem.Value.(*cacheEntry).value, true
}

// Put stores value under key, evicting least recently used entries until
// the cache fits its budget. A value larger than the whole budget is not
// stored.
func (c *Cache) Put(key CacheKey, value string) {
	size := int64(len(value))
	if size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*cacheEntry)
		c.usedBytes += size - int64(len(e.value))
		e.value = value
		c.order.MoveToFront(elem)
	} else {
		c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
		c.usedBytes += size
	}
	for c.usedBytes > c.maxBytes {
		c.evictOldest()
	}
}

// Invalidate drops every entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[CacheKey]*list.Element)
	c.order.Init()
	c.usedBytes = 0
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.order.Len(),
		SizeBytes: c.usedBytes,
	}
}

// evictOldest removes the back of the list. Caller holds c.mu.
func (c *Cache) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := c.order.Remove(back).(*cacheEntry)
	delete(c.items, e.key)
	c.usedBytes -= int64(len(e.value))
	c.evictions.Add(1)
}

// HashImage hashes the bounds and pixels of img.
func HashImage(img image.Image) [32]byte {
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = imaging.Clone(img)
	}
	b := nrgba.Bounds()

	h := sha256.New()
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[:4], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(dims[4:], uint32(b.Dy()))
	h.Write(dims[:])
	rowBytes := b.Dx() * 4
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := nrgba.PixOffset(b.Min.X, y)
		h.Write(nrgba.Pix[off : off+rowBytes])
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
