package dto

import (
	"time"

	"restock/internal/domain/scratch"
)

// ScratchResponse is the recovered draft snapshot.
type ScratchResponse struct {
	Transaction *ImportTransactionResponse `json:"transaction"`
	SavedAt     time.Time                  `json:"savedAt"`
}

// FromSnapshot converts a scratch snapshot to a response DTO.
func FromSnapshot(s *scratch.Snapshot) *ScratchResponse {
	return &ScratchResponse{
		Transaction: FromImportTransaction(s.Transaction),
		SavedAt:     s.SavedAt,
	}
}
