package models

import (
	"encoding/json"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// BlockRequest a block of the edited page; blocks without id are new
type BlockRequest struct {
	ID      *int64          `json:"id"`
	Type    string          `json:"type"`
	Order   int             `json:"order"`
	Content json.RawMessage `json:"content"`
}

// SavePageRequest the whole page as the builder shows it
type SavePageRequest struct {
	Blocks []BlockRequest `json:"blocks"`
}

type BlockResponse struct {
	ID      int64               `json:"id"`
	Type    domain.BlockType    `json:"type"`
	Order   int                 `json:"order"`
	Content domain.BlockContent `json:"content"`
}

type PageResponse struct {
	BusinessID int64           `json:"business_id"`
	Blocks     []BlockResponse `json:"blocks"`
}

// FromDomainPage renders blocks in display order
func FromDomainPage(businessID int64, blocks []domain.Block) *PageResponse {
	domain.SortBlocks(blocks)

	resp := &PageResponse{BusinessID: businessID, Blocks: make([]BlockResponse, 0, len(blocks))}
	for _, b := range blocks {
		resp.Blocks = append(resp.Blocks, BlockResponse{
			ID:      b.ID,
			Type:    b.Type,
			Order:   b.Order,
			Content: b.Content,
		})
	}
	return resp
}
