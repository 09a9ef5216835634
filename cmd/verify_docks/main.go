// verify_docks 构建航线并检查停靠表
//
// 用法:
//
//	go run ./cmd/verify_docks --config data/journey.yaml --simulate --assets
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/game"
	"github.com/decker502/journey/pkg/journey"
	"github.com/decker502/journey/pkg/route"
)

var (
	configPath = flag.String("config", "data/journey.yaml", "Journey config to verify")
	simulate   = flag.Bool("simulate", false, "Jump to every waypoint and check that the vehicle docks")
	frames     = flag.Int("frames", 1200, "Frames to simulate per jump")
	assets     = flag.Bool("assets", false, "Decode the configured sprites")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// 结果用 fmt 输出，引擎日志只在 verbose 时显示
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	fmt.Printf("=== Verifying docks for %s ===\n", *configPath)

	cfg, err := config.LoadJourneyConfig(*configPath)
	if err != nil {
		fmt.Printf("❌ FATAL: %v\n", err)
		os.Exit(1)
	}

	waypoints := cfg.BuildWaypoints()
	if len(waypoints) == 0 {
		fmt.Printf("⚠️  WARNING: Journey has no waypoints, nothing to verify\n")
		return
	}

	positions := route.Positions(waypoints)
	path, err := route.BuildPath(positions, cfg.PathOptions())
	if err != nil {
		fmt.Printf("❌ FATAL: Failed to build path: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Path built: %d control points, length %.1f\n", len(path.ControlPoints()), path.Length())

	success := true

	docks, err := route.ResolveDocks(path, positions, cfg.Docks.Offset, cfg.Docks.Samples)
	if errors.Is(err, route.ErrDegenerateDockOrder) {
		fmt.Printf("⚠️  WARNING: %v\n", err)
		success = false
	} else if err != nil {
		fmt.Printf("❌ FATAL: Failed to resolve docks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%-4s %-24s %10s %10s\n", "#", "Title", "Dock", "Distance")
	for i, wp := range waypoints {
		title := ""
		if meta, ok := wp.Metadata.(config.WaypointMeta); ok {
			title = meta.Title
		}
		dockPoint := path.PointAt(docks[i])
		dist := dockPoint.DistanceXZ(wp.Position)
		marker := ""
		switch {
		case dist >= cfg.Arrival.Radius:
			// 停靠点在到达半径之外，载具永远不会停在这个航点
			marker = "  ❌ outside arrival radius"
			success = false
		case dockPoint.Sub(wp.Position).Flat().Dot(path.SideAt(i)) <= 0:
			marker = "  ⚠️  docks on the wrong side"
		}
		fmt.Printf("%-4d %-24s %10.5f %10.2f%s\n", i, title, docks[i], dist, marker)
	}

	if docks.StrictlyIncreasing() {
		fmt.Printf("\n✅ Dock table is strictly increasing\n")
	} else {
		fmt.Printf("\n❌ FAILURE: Dock table is not strictly increasing\n")
		success = false
	}

	if *simulate {
		if !simulateJumps(cfg, waypoints) {
			success = false
		}
	}

	if *assets {
		if !checkAssets(cfg.Assets) {
			success = false
		}
	}

	fmt.Printf("\n=== Final Result ===\n")
	if success {
		fmt.Printf("✅ SUCCESS: All checks passed\n")
		return
	}
	fmt.Printf("❌ FAILURE: Some checks failed\n")
	os.Exit(1)
}

// simulateJumps 依次跳到每个航点，检查载具是否停靠在目标航点
func simulateJumps(cfg *config.JourneyConfig, waypoints []route.Waypoint) bool {
	fmt.Printf("\n=== Simulating jumps ===\n")

	nav, err := journey.NewNavigator(cfg, waypoints, false)
	if err != nil {
		fmt.Printf("❌ FATAL: Failed to create navigator: %v\n", err)
		return false
	}

	ok := true
	for i := range waypoints {
		if err := nav.OnJump(i); err != nil {
			fmt.Printf("❌ Jump %d rejected: %v\n", i, err)
			ok = false
			continue
		}

		docked := false
		elapsed := 0
		for ; elapsed < *frames; elapsed++ {
			nav.Update(1.0 / 60)
			if nav.State().DockedIndex == i {
				docked = true
				break
			}
		}

		if docked {
			fmt.Printf("✅ Waypoint %d docked after %.2fs\n", i, float64(elapsed)/60)
		} else {
			fmt.Printf("❌ Waypoint %d not docked after %d frames (progress %.4f)\n", i, *frames, nav.State().CurrentProgress)
			ok = false
		}
	}
	return ok
}

// checkAssets 解码配置的贴图，未配置目录时检查配置文件旁的 sprites 目录
func checkAssets(assetCfg config.AssetConfig) bool {
	dir := assetCfg.Dir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(*configPath), "sprites")
	}
	fmt.Printf("\n=== Checking sprites in %s ===\n", dir)

	cache := game.NewAssetCache(game.NewImageLoader(os.DirFS(dir)))
	ok := true
	for _, name := range []string{assetCfg.VehicleImage, assetCfg.IslandImage} {
		if name == "" {
			continue
		}
		cache.Request(name, func(img image.Image, err error) {
			if err != nil {
				fmt.Printf("❌ %s: %v\n", name, err)
				ok = false
				return
			}
			b := img.Bounds()
			fmt.Printf("✅ %s: %dx%d\n", name, b.Dx(), b.Dy())
		})
	}
	cache.Wait()
	cache.Poll()
	return ok
}
