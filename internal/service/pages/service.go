package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/pages/models"
)

// Service page builder of a business landing page
type Service struct {
	pageRepo  PageRepository
	txManager TransactionManager
	guard     AccessGuard
	logger    Logger
}

func NewService(pageRepo PageRepository, txManager TransactionManager, guard AccessGuard, logger Logger) *Service {
	return &Service{
		pageRepo:  pageRepo,
		txManager: txManager,
		guard:     guard,
		logger:    logger,
	}
}

// Get public page of a business
func (s *Service) Get(ctx context.Context, businessID int64) (*models.PageResponse, error) {
	if _, err := s.guard.Business(ctx, businessID); err != nil {
		return nil, err
	}

	blocks, err := s.pageRepo.ListBlocks(ctx, businessID)
	if err != nil {
		s.logger.Error("Get: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainPage(businessID, blocks), nil
}

// Save replaces the page with req in one transaction.
// Existing blocks keep their ids, missing ones are removed.
func (s *Service) Save(ctx context.Context, actor domain.Actor, businessID int64, req *models.SavePageRequest) (*models.PageResponse, error) {
	s.logger.Info("Save: saving %d blocks for business=%d by user=%d", len(req.Blocks), businessID, actor.UserID)

	// 1. Decode and validate every block
	blocks, err := parseBlocks(businessID, req)
	if err != nil {
		s.logger.Warn("Save: validation failed: %v", err)
		return nil, err
	}

	// 2. Access check
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	// 3. Replace atomically
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.pageRepo.ReplaceBlocks(ctx, businessID, blocks)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Save: unknown block id for business=%d: %v", businessID, err)
			return nil, ErrBlockNotFound
		}
		s.logger.Error("Save: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Save: successfully saved page of business=%d", businessID)
	return models.FromDomainPage(businessID, blocks), nil
}

func (s *Service) DeleteBlock(ctx context.Context, actor domain.Actor, businessID, blockID int64) error {
	s.logger.Info("DeleteBlock: deleting block id=%d of business=%d by user=%d", blockID, businessID, actor.UserID)

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return err
	}

	if err := s.pageRepo.DeleteBlock(ctx, businessID, blockID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: repository error for block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: DeleteBlock - repository error: %v", ErrInternal, err)
	}
	return nil
}

func parseBlocks(businessID int64, req *models.SavePageRequest) ([]domain.Block, error) {
	v := domain.NewValidationError()

	if len(req.Blocks) > domain.MaxBlocksPerPage {
		v.Add("blocks", fmt.Sprintf("a page holds at most %d blocks", domain.MaxBlocksPerPage))
		return nil, v
	}

	blocks := make([]domain.Block, 0, len(req.Blocks))
	seen := make(map[int64]bool, len(req.Blocks))
	for i, br := range req.Blocks {
		field := fmt.Sprintf("blocks.%d", i)
		block := domain.Block{
			BusinessID: businessID,
			Type:       domain.BlockType(br.Type),
			Order:      br.Order,
		}

		if br.ID != nil {
			if seen[*br.ID] {
				v.Add(field+".id", "duplicate block id")
			}
			seen[*br.ID] = true
			block.ID = *br.ID
		}

		content, err := domain.DecodeBlockContent(block.Type, br.Content)
		if err != nil {
			v.Add(field+".content", err.Error())
			continue
		}
		content.Validate(v, field+".content")
		block.Content = content
		blocks = append(blocks, block)
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return blocks, nil
}
