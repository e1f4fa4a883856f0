package service

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/stretchr/testify/assert"
)

func TestPlanBatches(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	item := func(id string, p models.Priority, offset time.Duration, seq uint64) models.QueueItem {
		return models.QueueItem{ID: id, Priority: p, CreatedAt: base.Add(offset), Seq: seq}
	}

	tests := []struct {
		name  string
		items []models.QueueItem
		size  int
		want  [][]string
	}{
		{
			name: "empty queue",
			size: 10,
			want: nil,
		},
		{
			name: "priority before age",
			items: []models.QueueItem{
				item("low-old", models.PriorityLow, 0, 1),
				item("med", models.PriorityMedium, time.Second, 2),
				item("high-new", models.PriorityHigh, 2*time.Second, 3),
			},
			size: 10,
			want: [][]string{{"high-new", "med", "low-old"}},
		},
		{
			name: "same tick ordered by sequence",
			items: []models.QueueItem{
				item("second", models.PriorityMedium, 0, 8),
				item("first", models.PriorityMedium, 0, 7),
			},
			size: 10,
			want: [][]string{{"first", "second"}},
		},
		{
			name: "split into batches",
			items: []models.QueueItem{
				item("a", models.PriorityMedium, 0, 1),
				item("b", models.PriorityMedium, time.Second, 2),
				item("c", models.PriorityMedium, 2*time.Second, 3),
				item("d", models.PriorityHigh, 3*time.Second, 4),
				item("e", models.PriorityMedium, 4*time.Second, 5),
			},
			size: 2,
			want: [][]string{{"d", "a"}, {"b", "c"}, {"e"}},
		},
		{
			name: "non-positive size means one batch",
			items: []models.QueueItem{
				item("a", models.PriorityLow, 0, 1),
				item("b", models.PriorityHigh, 0, 2),
			},
			size: 0,
			want: [][]string{{"b", "a"}},
		},
		{
			name: "unknown priority sorts last",
			items: []models.QueueItem{
				item("weird", models.Priority("urgent"), 0, 1),
				item("low", models.PriorityLow, time.Second, 2),
			},
			size: 5,
			want: [][]string{{"low", "weird"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := planBatches(tt.items, tt.size)

			var got [][]string
			for _, b := range batches {
				var ids []string
				for _, it := range b {
					ids = append(ids, it.ID)
				}
				got = append(got, ids)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanBatches_DoesNotReorderInput(t *testing.T) {
	items := []models.QueueItem{
		{ID: "low", Priority: models.PriorityLow, Seq: 1},
		{ID: "high", Priority: models.PriorityHigh, Seq: 2},
	}

	planBatches(items, 10)

	assert.Equal(t, "low", items[0].ID)
	assert.Equal(t, "high", items[1].ID)
}
