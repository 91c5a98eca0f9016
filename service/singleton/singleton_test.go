package singleton

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/armyhq/restockbot/model"
)

// testSetup wires the package singletons against throwaway state: a fresh
// sqlite file, an empty cache and a temp data dir for the json documents.
func testSetup(t *testing.T) {
	t.Helper()

	Conf = &model.Config{
		Location:            "America/Sao_Paulo",
		DataDir:             t.TempDir(),
		BaseSeconds:         180,
		PeakSeconds:         60,
		FetchTimeoutSeconds: 25,
		ConfirmWaitSeconds:  0,
		AlertRepeat:         3,
		AlertGapSeconds:     0,
		RetentionDays:       30,
	}
	Conf.Product.Name = "ARMY BOMB VER.4"
	Conf.Product.URL = "https://shop.example.com/sales/54189"

	var err error
	Loc, err = time.LoadLocation(Conf.Location)
	if err != nil {
		t.Fatal(err)
	}
	Cache = cache.New(5*time.Minute, 10*time.Minute)

	DB, err = gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := InitSchema(); err != nil {
		t.Fatal(err)
	}

	LoadSettings()
	LoadPremium()
}
