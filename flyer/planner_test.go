package flyer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flyer-builder/models"
)

func records(n int, group string) []models.ProductRecord {
	out := make([]models.ProductRecord, n)
	for i := range out {
		out[i] = models.ProductRecord{Row: i, GroupKey: group, SKU: fmt.Sprintf("SKU-%02d", i)}
	}
	return out
}

func TestPlanBatchSizes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n     int
		sizes []int
	}{
		{n: 1, sizes: []int{1}},
		{n: 6, sizes: []int{6}},
		{n: 7, sizes: []int{6, 1}},
		{n: 12, sizes: []int{6, 6}},
		{n: 13, sizes: []int{6, 6, 1}},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d records", tc.n), func(t *testing.T) {
			plans := Plan(records(tc.n, "Store A"), nil)
			require.Len(t, plans, 1)
			assert.Equal(t, "Store A", plans[0].GroupKey)
			require.Len(t, plans[0].Batches, len(tc.sizes))
			for i, batch := range plans[0].Batches {
				assert.Equal(t, i+1, batch.Sequence)
				assert.Len(t, batch.Records, tc.sizes[i])
				assert.Equal(t, "Store A", batch.GroupKey)
			}
		})
	}
}

func TestPlanSkipsBlankGroups(t *testing.T) {
	t.Parallel()

	recs := append(records(4, ""), records(3, "   ")...)
	assert.Empty(t, Plan(recs, nil))
}

func TestPlanKeepsRelativeOrder(t *testing.T) {
	t.Parallel()

	var recs []models.ProductRecord
	groups := []string{"Norte", "Sur", "Norte", "", "Sur", "Norte", "Norte", "Norte", "Norte", "Norte", "Sur"}
	for i, g := range groups {
		recs = append(recs, models.ProductRecord{Row: i, GroupKey: g})
	}

	plans := Plan(recs, nil)
	require.Len(t, plans, 2)
	assert.Equal(t, "Norte", plans[0].GroupKey)
	assert.Equal(t, "Sur", plans[1].GroupKey)

	var norte []int
	for _, b := range plans[0].Batches {
		for _, r := range b.Records {
			norte = append(norte, r.Row)
		}
	}
	assert.Equal(t, []int{0, 2, 5, 6, 7, 8, 9}, norte)
	assert.Len(t, plans[0].Batches, 2)

	var sur []int
	for _, r := range plans[1].Batches[0].Records {
		sur = append(sur, r.Row)
	}
	assert.Equal(t, []int{1, 4, 10}, sur)
}

func TestPlanIsDeterministic(t *testing.T) {
	t.Parallel()

	var recs []models.ProductRecord
	for i := 0; i < 40; i++ {
		recs = append(recs, models.ProductRecord{Row: i, GroupKey: []string{"A", "B", "C"}[i%3]})
	}
	assert.Equal(t, Plan(recs, nil), Plan(recs, nil))
}

func TestPlanCustomKeyFunc(t *testing.T) {
	t.Parallel()

	recs := []models.ProductRecord{
		{Row: 0, Brand: "Sony"},
		{Row: 1, Brand: "LG"},
		{Row: 2, Brand: "Sony"},
	}
	plans := Plan(recs, func(r models.ProductRecord) string { return r.Brand })
	require.Len(t, plans, 2)
	assert.Equal(t, "Sony", plans[0].GroupKey)
	assert.Len(t, plans[0].Batches[0].Records, 2)
	assert.Equal(t, "Sony", plans[0].Batches[0].Records[1].GroupKey)
}

func TestPlanGivesCollidingKeysDistinctSlugs(t *testing.T) {
	t.Parallel()

	recs := append(records(7, "Tienda #1"), records(1, "Tienda 1")...)
	plans := Plan(recs, nil)
	require.Len(t, plans, 2)

	assert.Equal(t, "tienda_1", plans[0].Slug)
	assert.Equal(t, "tienda_1-2", plans[1].Slug)
	for _, plan := range plans {
		for _, batch := range plan.Batches {
			assert.Equal(t, plan.Slug, batch.Slug)
		}
	}
}
