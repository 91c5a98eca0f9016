package singleton

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/armyhq/restockbot/model"
)

// InitSchema migrates the tables and makes sure the singleton memory row
// exists. Running it again is a no-op.
func InitSchema() error {
	if err := DB.AutoMigrate(model.Check{}, model.StatusMemory{}); err != nil {
		return err
	}
	var count int64
	if err := DB.Model(&model.StatusMemory{}).
		Where("id = ?", model.StatusMemoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return DB.Create(&model.StatusMemory{ID: model.StatusMemoryID}).Error
	}
	return nil
}

// RecordCheck appends one executed check to the history log.
func RecordCheck(mode string, available bool, latency time.Duration, checkErr error) error {
	c := model.Check{
		CreatedAt: time.Now().In(Loc),
		Mode:      mode,
		Available: available,
		LatencyMS: latency.Milliseconds(),
	}
	if checkErr != nil {
		c.Error = checkErr.Error()
	}
	return DB.Create(&c).Error
}

// LastCheck returns the most recent check row, or nil when the log is empty.
func LastCheck() (*model.Check, error) {
	var c model.Check
	err := DB.Order("id DESC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetMemory ..
func GetMemory() (*model.StatusMemory, error) {
	var m model.StatusMemory
	if err := DB.First(&m, model.StatusMemoryID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMemory records the latest observed availability. LastChangeAt moves
// only on the first value ever, or when the value flips; otherwise only
// LastCheckAt advances.
func UpdateMemory(newStatus bool, at time.Time) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var m model.StatusMemory
		if err := tx.First(&m, model.StatusMemoryID).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{"last_check_at": at}
		if m.LastStatus == nil || *m.LastStatus != newStatus {
			updates["last_status"] = newStatus
			updates["last_change_at"] = at
		}
		return tx.Model(&m).Updates(updates).Error
	})
}

// DayStats summarizes the last 24 hours of checks.
type DayStats struct {
	Total  int64
	Errors int64
	AvgMS  int64
	MaxMS  int64
}

// StatsLast24h ..
func StatsLast24h() (*DayStats, error) {
	cutoff := time.Now().In(Loc).Add(-24 * time.Hour)
	var out struct {
		Total  int64
		Errors int64
		AvgMS  *float64
		MaxMS  *int64
	}
	err := DB.Model(&model.Check{}).
		Select("COUNT(*) AS total,"+
			" SUM(CASE WHEN error != '' THEN 1 ELSE 0 END) AS errors,"+
			" AVG(CASE WHEN error = '' THEN latency_ms END) AS avg_ms,"+
			" MAX(CASE WHEN error = '' THEN latency_ms END) AS max_ms").
		Where("created_at >= ?", cutoff).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	s := &DayStats{Total: out.Total, Errors: out.Errors}
	if out.AvgMS != nil {
		s.AvgMS = int64(*out.AvgMS)
	}
	if out.MaxMS != nil {
		s.MaxMS = *out.MaxMS
	}
	return s, nil
}

// HourLatency is one hour-of-day bucket ranked by average latency.
type HourLatency struct {
	Hour  int
	Count int
	AvgMS int64
}

// HourRestocks is one hour-of-day bucket ranked by 0→1 flips.
type HourRestocks struct {
	Hour int
	Hits int
}

// Buckets need a minimum sample size before an average means anything.
const minHourSamples = 5

// TopHoursByLatency ranks hours of the day by average check latency over
// the given horizon. Aggregation happens Go-side so hour bucketing follows
// the configured timezone rather than sqlite's UTC datetime math.
func TopHoursByLatency(days, limit int) ([]HourLatency, error) {
	checks, err := successfulChecksSince(days)
	if err != nil {
		return nil, err
	}
	var sum, n [24]int64
	for i := range checks {
		h := checks[i].CreatedAt.In(Loc).Hour()
		sum[h] += checks[i].LatencyMS
		n[h]++
	}
	var out []HourLatency
	for h := 0; h < 24; h++ {
		if n[h] >= minHourSamples {
			out = append(out, HourLatency{Hour: h, Count: int(n[h]), AvgMS: sum[h] / n[h]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AvgMS > out[j].AvgMS })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// TopHoursByRestocks ranks hours of the day by the number of observed
// unavailable→available flips in the check log over the given horizon.
func TopHoursByRestocks(days, limit int) ([]HourRestocks, error) {
	checks, err := successfulChecksSince(days)
	if err != nil {
		return nil, err
	}
	var hits [24]int
	prev := -1 // previous availability, -1 before the first row
	for i := range checks {
		cur := 0
		if checks[i].Available {
			cur = 1
		}
		if cur == 1 && prev != 1 {
			hits[checks[i].CreatedAt.In(Loc).Hour()]++
		}
		prev = cur
	}
	var out []HourRestocks
	for h := 0; h < 24; h++ {
		if hits[h] > 0 {
			out = append(out, HourRestocks{Hour: h, Hits: hits[h]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hits > out[j].Hits })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func successfulChecksSince(days int) ([]model.Check, error) {
	cutoff := time.Now().In(Loc).AddDate(0, 0, -days)
	var checks []model.Check
	err := DB.Where("created_at >= ? AND error = ''", cutoff).
		Order("created_at").Find(&checks).Error
	return checks, err
}

// PruneChecks drops history older than the retention horizon.
func PruneChecks(olderThan time.Time) (int64, error) {
	res := DB.Where("created_at < ?", olderThan).Delete(&model.Check{})
	return res.RowsAffected, res.Error
}
