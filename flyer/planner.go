package flyer

import (
	"strings"

	"flyer-builder/models"
	"flyer-builder/utils"
)

// BatchSize is the number of products per flyer page
const BatchSize = models.BatchSize

// GroupKeyFunc extracts the group key of a record
type GroupKeyFunc func(models.ProductRecord) string

// ByGroupKey groups records by their GroupKey field
func ByGroupKey(rec models.ProductRecord) string {
	return rec.GroupKey
}

// Plan groups records by key and chunks every group into batches of BatchSize.
// Groups keep the order of their first record and records keep their relative
// order inside the group. Blank keys are skipped. Sequence numbers start at 1.
// Every group gets a distinct file slug, so no two groups share an output file.
func Plan(records []models.ProductRecord, keyFn GroupKeyFunc) []models.GroupPlan {
	if keyFn == nil {
		keyFn = ByGroupKey
	}

	index := make(map[string]int)
	var grouped [][]models.ProductRecord
	var keys []string

	for _, rec := range records {
		key := strings.TrimSpace(keyFn(rec))
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(keys)
			index[key] = i
			keys = append(keys, key)
			grouped = append(grouped, nil)
		}
		rec.GroupKey = key
		grouped[i] = append(grouped[i], rec)
	}

	slugs := utils.NewSlugs()
	plans := make([]models.GroupPlan, 0, len(keys))
	for i, key := range keys {
		slug := slugs.For(key)
		plans = append(plans, models.GroupPlan{
			GroupKey: key,
			Slug:     slug,
			Batches:  chunk(key, slug, grouped[i]),
		})
	}
	return plans
}

func chunk(key, slug string, records []models.ProductRecord) []models.Batch {
	batches := make([]models.Batch, 0, (len(records)+BatchSize-1)/BatchSize)
	for start := 0; start < len(records); start += BatchSize {
		end := start + BatchSize
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, models.Batch{
			GroupKey: key,
			Slug:     slug,
			Sequence: len(batches) + 1,
			Records:  records[start:end:end],
		})
	}
	return batches
}
