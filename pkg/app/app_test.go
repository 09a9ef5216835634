package app

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/decker502/journey/pkg/embedded"
	"github.com/decker502/journey/pkg/game"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("编码 PNG 失败: %v", err)
	}
	return buf.Bytes()
}

// loadNow 请求并等待一张贴图
func loadNow(cache *game.AssetCache[image.Image], key string) (image.Image, game.AssetState) {
	cache.Request(key, nil)
	cache.Wait()
	cache.Poll()
	return cache.Get(key)
}

// TestNewSpriteCache 测试贴图来源的选择
func TestNewSpriteCache(t *testing.T) {
	sprite := encodePNG(t, 8, 4)

	t.Run("配置目录优先", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "boat.png"), sprite, 0o644); err != nil {
			t.Fatalf("写入贴图失败: %v", err)
		}
		embedded.Init(fstest.MapFS{})

		cache := newSpriteCache(dir)
		if cache == nil {
			t.Fatal("配置了目录时应返回缓存")
		}
		img, state := loadNow(cache, "boat.png")
		if state != game.AssetReady || img.Bounds().Dx() != 8 {
			t.Errorf("state = %v, 期望从目录加载 8x4 贴图", state)
		}
	})

	t.Run("回退到嵌入贴图", func(t *testing.T) {
		embedded.Init(fstest.MapFS{
			"data/journey.yaml":        {Data: []byte("waypoints: []\n")},
			"data/sprites/vehicle.png": {Data: sprite},
		})

		cache := newSpriteCache("")
		if cache == nil {
			t.Fatal("嵌入资源包含 data/sprites 时应返回缓存")
		}
		img, state := loadNow(cache, "vehicle.png")
		if state != game.AssetReady || img.Bounds().Dy() != 4 {
			t.Errorf("state = %v, 期望从嵌入资源加载 8x4 贴图", state)
		}
	})

	t.Run("没有贴图", func(t *testing.T) {
		embedded.Init(fstest.MapFS{
			"data/journey.yaml": {Data: []byte("waypoints: []\n")},
		})
		if cache := newSpriteCache(""); cache != nil {
			t.Error("没有贴图目录时应返回 nil")
		}
	})
}
