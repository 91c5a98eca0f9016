package singleton

import (
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/armyhq/restockbot/model"
)

var Version = "v0.3.1"

var (
	Conf  *model.Config
	Cache *cache.Cache
	DB    *gorm.DB
	Loc   *time.Location
)

// Init loads the configured timezone and the shared cache. Must run before
// anything touches Loc.
func Init() {
	var err error
	Loc, err = time.LoadLocation(Conf.Location)
	if err != nil {
		panic(err)
	}
	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// InitConfigFromPath ..
func InitConfigFromPath(path string) {
	var err error
	Conf, err = model.ReadInConfig(path)
	if err != nil {
		panic(err)
	}
}

// InitDBFromPath opens the sqlite store and bootstraps the schema. Safe to
// call on every startup: migration and the memory-row insert are idempotent.
func InitDBFromPath(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if Conf.Debug {
		DB = DB.Debug()
	}
	// memory is the sole cross-restart source of truth, so writes must hit
	// disk before they return
	DB.Exec("PRAGMA journal_mode = WAL")
	DB.Exec("PRAGMA synchronous = FULL")
	if err = InitSchema(); err != nil {
		panic(err)
	}
}

// LoadSingleton loads the sub-services that need state from disk.
func LoadSingleton() {
	LoadSettings()
	LoadPremium()
	LoadCronTasks()
}
