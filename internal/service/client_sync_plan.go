// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"slices"

	"github.com/MKhiriev/go-tool-keeper/models"
)

// planBatches orders queued items for a sync pass and cuts them into
// batches of at most size items.
//
// Items are sorted by priority rank (high first), then by creation time,
// then by store sequence, so two mutations of the same row keep their
// relative order even when they share a timestamp. The input slice is not
// modified.
func planBatches(items []models.QueueItem, size int) [][]models.QueueItem {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(items)
	}

	ordered := slices.Clone(items)
	slices.SortStableFunc(ordered, compareQueueItems)

	batches := make([][]models.QueueItem, 0, (len(ordered)+size-1)/size)
	for start := 0; start < len(ordered); start += size {
		end := min(start+size, len(ordered))
		batches = append(batches, ordered[start:end])
	}
	return batches
}

func compareQueueItems(a, b models.QueueItem) int {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra - rb
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.Seq < b.Seq:
		return -1
	case a.Seq > b.Seq:
		return 1
	}
	return 0
}
