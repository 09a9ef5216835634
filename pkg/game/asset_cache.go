package game

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"log"
	"sync"
)

// AssetState 资源加载状态
type AssetState int

const (
	// AssetMissing 从未请求
	AssetMissing AssetState = iota
	AssetLoading
	AssetReady
	AssetFailed
)

// String 返回状态名称
func (s AssetState) String() string {
	switch s {
	case AssetLoading:
		return "loading"
	case AssetReady:
		return "ready"
	case AssetFailed:
		return "failed"
	default:
		return "missing"
	}
}

// AssetLoader 在后台 goroutine 中加载一个资源
type AssetLoader[T any] func(key string) (T, error)

// AssetCache 异步资源缓存
//
// 每个资源键只加载一次：首次 Request 启动后台加载，之后的请求登记为等待者。
// 加载结果在 Poll 中应用，等待者也在 Poll 中调用，
// 因此 Request / Get / Poll 都应在帧线程上调用。
//
// 缓存作为服务注入使用方，而不是全局单例。
// 加载失败只记录日志并标记为 AssetFailed，使用方应回退到不依赖资源的绘制方式。
type AssetCache[T any] struct {
	loader  AssetLoader[T]
	entries map[string]*assetEntry[T]

	mu        sync.Mutex
	completed []assetResult[T] // 由加载 goroutine 写入

	inflight sync.WaitGroup
}

type assetEntry[T any] struct {
	state   AssetState
	value   T
	err     error
	waiters []func(T, error)
}

type assetResult[T any] struct {
	key   string
	value T
	err   error
}

// NewAssetCache 创建资源缓存
func NewAssetCache[T any](loader AssetLoader[T]) *AssetCache[T] {
	return &AssetCache[T]{
		loader:  loader,
		entries: make(map[string]*assetEntry[T]),
	}
}

// Request 请求资源
//
// 资源已就绪或已失败时立即调用 waiter；否则在加载完成后的 Poll 中调用。
// waiter 可为 nil。
func (c *AssetCache[T]) Request(key string, waiter func(T, error)) {
	entry, ok := c.entries[key]
	if ok {
		switch entry.state {
		case AssetReady, AssetFailed:
			if waiter != nil {
				waiter(entry.value, entry.err)
			}
		default:
			if waiter != nil {
				entry.waiters = append(entry.waiters, waiter)
			}
		}
		return
	}

	entry = &assetEntry[T]{state: AssetLoading}
	if waiter != nil {
		entry.waiters = append(entry.waiters, waiter)
	}
	c.entries[key] = entry

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		value, err := c.loader(key)

		c.mu.Lock()
		c.completed = append(c.completed, assetResult[T]{key: key, value: value, err: err})
		c.mu.Unlock()
	}()
}

// Get 返回资源当前状态，只有 AssetReady 时值有效
func (c *AssetCache[T]) Get(key string) (T, AssetState) {
	entry, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, AssetMissing
	}
	return entry.value, entry.state
}

// Poll 应用已完成的加载并通知等待者，返回本次应用的数量
func (c *AssetCache[T]) Poll() int {
	c.mu.Lock()
	results := c.completed
	c.completed = nil
	c.mu.Unlock()

	for _, r := range results {
		entry := c.entries[r.key]
		if r.err != nil {
			entry.state = AssetFailed
			entry.err = r.err
			log.Printf("[AssetCache] Failed to load %s: %v", r.key, r.err)
		} else {
			entry.state = AssetReady
			entry.value = r.value
		}

		waiters := entry.waiters
		entry.waiters = nil
		for _, w := range waiters {
			w(entry.value, entry.err)
		}
	}
	return len(results)
}

// Wait 阻塞直到所有进行中的加载完成（结果仍需 Poll 应用）
func (c *AssetCache[T]) Wait() {
	c.inflight.Wait()
}

// NewImageLoader 从文件系统解码图片（PNG / JPEG）
//
// 只做解码，转换为 GPU 纹理应在帧线程上进行。
func NewImageLoader(fsys fs.FS) AssetLoader[image.Image] {
	return func(key string) (image.Image, error) {
		if fsys == nil {
			return nil, fmt.Errorf("no asset filesystem for %s", key)
		}
		f, err := fsys.Open(key)
		if err != nil {
			return nil, fmt.Errorf("failed to open image file %s: %w", key, err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image %s: %w", key, err)
		}
		return img, nil
	}
}
