package singleton

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/armyhq/restockbot/model"
	"github.com/armyhq/restockbot/pkg/utils"
)

// Premium allow-list document, same full-document discipline as settings.
var (
	premiumLock sync.Mutex
	premiumPath string
)

func LoadPremium() {
	premiumPath = filepath.Join(Conf.DataDir, "premium.json")
}

func readPremium() model.PremiumList {
	var p model.PremiumList
	data, err := os.ReadFile(premiumPath)
	if err != nil {
		return p
	}
	if err := utils.Json.Unmarshal(data, &p); err != nil {
		log.Println("RESTOCK>> premium document unreadable, starting empty:", err)
		return model.PremiumList{}
	}
	return p
}

func writePremium(p model.PremiumList) {
	sort.Slice(p.PremiumUserIDs, func(i, j int) bool {
		return p.PremiumUserIDs[i] < p.PremiumUserIDs[j]
	})
	data, err := utils.Json.MarshalIndent(p, "", "  ")
	if err == nil {
		err = utils.WriteFileAtomic(premiumPath, data, 0o644)
	}
	if err != nil {
		log.Println("RESTOCK>> failed to persist premium list:", err)
	}
}

// IsPremium ..
func IsPremium(userID int64) bool {
	premiumLock.Lock()
	defer premiumLock.Unlock()
	for _, id := range readPremium().PremiumUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddPremium returns false if the user was already on the list.
func AddPremium(userID int64) bool {
	premiumLock.Lock()
	defer premiumLock.Unlock()
	p := readPremium()
	for _, id := range p.PremiumUserIDs {
		if id == userID {
			return false
		}
	}
	p.PremiumUserIDs = append(p.PremiumUserIDs, userID)
	writePremium(p)
	return true
}

// RemovePremium returns false if the user was not on the list.
func RemovePremium(userID int64) bool {
	premiumLock.Lock()
	defer premiumLock.Unlock()
	p := readPremium()
	kept := p.PremiumUserIDs[:0]
	removed := false
	for _, id := range p.PremiumUserIDs {
		if id == userID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if removed {
		p.PremiumUserIDs = kept
		writePremium(p)
	}
	return removed
}

// ListPremium returns the allow-list, sorted ascending.
func ListPremium() []int64 {
	premiumLock.Lock()
	defer premiumLock.Unlock()
	ids := readPremium().PremiumUserIDs
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
