package caller

import (
	"sync"

	"go.uber.org/zap"

	"github.com/scrapex/outreach-engine/internal/model"
)

// History records triggered calls in insertion order.
type History interface {
	Append(rec *model.CallRecord)
	List(facilityName string) []model.CallRecord
	Len() int
}

// MemoryHistory is an in-process append-only call log safe for concurrent
// use. List hands out value copies so callers cannot mutate stored records.
type MemoryHistory struct {
	mu      sync.Mutex
	records []*model.CallRecord
}

// NewMemoryHistory returns an empty history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Append stores rec at the end of the log.
func (h *MemoryHistory) Append(rec *model.CallRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
}

// List returns copies of the stored records in insertion order. A non-empty
// facilityName filters by exact match; "" returns everything.
func (h *MemoryHistory) List(facilityName string) []model.CallRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.CallRecord, 0, len(h.records))
	for _, rec := range h.records {
		if facilityName != "" && rec.FacilityName != facilityName {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

// Len reports how many records have been appended.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// ArchiveFunc persists a call record to durable storage.
type ArchiveFunc func(model.CallRecord) error

// archivingHistory writes every appended record through to a durable
// archive. The in-memory history stays the source of truth; archive
// failures are logged and absorbed.
type archivingHistory struct {
	History
	archive ArchiveFunc
}

// NewArchivingHistory wraps inner so each append also lands in the
// durable archive.
func NewArchivingHistory(inner History, archive ArchiveFunc) History {
	return &archivingHistory{History: inner, archive: archive}
}

func (h *archivingHistory) Append(rec *model.CallRecord) {
	h.History.Append(rec)
	if err := h.archive(*rec); err != nil {
		zap.L().Warn("caller: failed to archive call record",
			zap.String("call_id", rec.ID),
			zap.Error(err),
		)
	}
}
