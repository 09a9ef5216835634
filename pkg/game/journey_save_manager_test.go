package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

// TestJourneySaveManager_SaveLoad 测试存档读写
func TestJourneySaveManager_SaveLoad(t *testing.T) {
	jm := NewJourneySaveManager(openTestGdata(t, "test_journey_save"))

	save, err := jm.Load(12)
	if err != nil || save != nil {
		t.Fatalf("没有存档时 Load() = %+v, %v", save, err)
	}

	if err := jm.Save(JourneySave{Progress: 0.42, Zoom: 0.8, WaypointCount: 12, LastWaypoint: 4}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	save, err = jm.Load(12)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if save == nil {
		t.Fatal("Load() returned nil after Save()")
	}
	if save.Progress != 0.42 || save.Zoom != 0.8 || save.LastWaypoint != 4 {
		t.Errorf("Loaded save = %+v", save)
	}
	if save.SavedAt.IsZero() {
		t.Error("SavedAt should be filled on save")
	}
}

// TestJourneySaveManager_WaypointCountMismatch 测试航点数变化后存档作废
func TestJourneySaveManager_WaypointCountMismatch(t *testing.T) {
	jm := NewJourneySaveManager(openTestGdata(t, "test_journey_mismatch"))

	if err := jm.Save(JourneySave{Progress: 0.5, Zoom: 1, WaypointCount: 12}); err != nil {
		t.Fatal(err)
	}
	if save, err := jm.Load(13); err != nil || save != nil {
		t.Errorf("航点数不一致时应忽略存档, got %+v, %v", save, err)
	}
}

// TestJourneySaveManager_Reset 测试重置
func TestJourneySaveManager_Reset(t *testing.T) {
	jm := NewJourneySaveManager(openTestGdata(t, "test_journey_reset"))

	if err := jm.Save(JourneySave{Progress: 0.5, Zoom: 1, WaypointCount: 3}); err != nil {
		t.Fatal(err)
	}
	if err := jm.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if save, err := jm.Load(3); err != nil || save != nil {
		t.Errorf("重置后不应有存档, got %+v, %v", save, err)
	}
}

// TestJourneySaveManager_NilGdata 测试降级模式
func TestJourneySaveManager_NilGdata(t *testing.T) {
	jm := NewJourneySaveManager(nil)

	if err := jm.Save(JourneySave{Progress: 0.5, WaypointCount: 3}); err != nil {
		t.Errorf("降级模式 Save() 不应报错: %v", err)
	}
	if save, err := jm.Load(3); err != nil || save != nil {
		t.Errorf("降级模式 Load() = %+v, %v", save, err)
	}
}
