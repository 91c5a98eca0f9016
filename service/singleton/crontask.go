package singleton

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

var Cron *cron.Cron

// LoadCronTasks registers maintenance jobs and starts the cron scheduler.
func LoadCronTasks() {
	Cron = cron.New(cron.WithSeconds(), cron.WithLocation(Loc))

	// prune check history past the analytics horizon, nightly during the
	// quietest stretch between the peak windows
	if _, err := Cron.AddFunc("0 0 4 * * *", pruneHistory); err != nil {
		panic(err)
	}

	Cron.Start()
}

func pruneHistory() {
	cutoff := time.Now().In(Loc).AddDate(0, 0, -Conf.RetentionDays)
	n, err := PruneChecks(cutoff)
	if err != nil {
		log.Println("RESTOCK>> history prune failed:", err)
		return
	}
	if n > 0 {
		log.Printf("RESTOCK>> pruned %d checks older than %d days", n, Conf.RetentionDays)
	}
}
