package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResolverService turns quote selections into draft replenishments and
// commits finalized drafts into one purchase order per vendor.
type ResolverService struct {
	replRepo    *repository.ReplenishmentRepository
	rfqRepo     *repository.RFQRepository
	poRepo      *repository.PORepository
	activityLog *repository.ActivityLogRepository
	aggregator  *AggregatorService
	db          *gorm.DB
	logger      *zap.Logger
}

func NewResolverService(
	replRepo *repository.ReplenishmentRepository,
	rfqRepo *repository.RFQRepository,
	poRepo *repository.PORepository,
	activityLog *repository.ActivityLogRepository,
	aggregator *AggregatorService,
	db *gorm.DB,
	logger *zap.Logger,
) *ResolverService {
	return &ResolverService{
		replRepo:    replRepo,
		rfqRepo:     rfqRepo,
		poRepo:      poRepo,
		activityLog: activityLog,
		aggregator:  aggregator,
		db:          db,
		logger:      logger,
	}
}

// CreateReplenishmentRequest create a draft from a named strategy or
// explicit selections
type CreateReplenishmentRequest struct {
	RFQID      string                     `json:"rfq_id" binding:"required"`
	Strategy   string                     `json:"strategy" binding:"required"`
	Selections map[string]string          `json:"selections"`
	Quantities map[string]decimal.Decimal `json:"quantities"`
}

// DraftResult a created draft with its cost estimate
type DraftResult struct {
	Replenishment *entity.Replenishment `json:"replenishment"`
	EstimatedCost decimal.Decimal       `json:"estimated_cost"`
	Unfulfilled   []string              `json:"unfulfilled,omitempty"`
	Warnings      []string              `json:"warnings,omitempty"`
}

// FinalizeResult a finalized replenishment and the orders it produced
type FinalizeResult struct {
	Replenishment *entity.Replenishment   `json:"replenishment"`
	Orders        []*entity.PurchaseOrder `json:"orders"`
	TotalCost     decimal.Decimal         `json:"total_cost"`
}

// List lists replenishments
func (s *ResolverService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Replenishment, int64, error) {
	return s.replRepo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one replenishment with lines and quotes
func (s *ResolverService) Get(ctx context.Context, id string) (*entity.Replenishment, error) {
	return s.replRepo.FindByID(ctx, id)
}

// CreateDraft validates selections against the current quote view and
// persists a DRAFT replenishment. All validation happens before any
// write; a failed create leaves nothing behind, so retries are safe.
func (s *ResolverService) CreateDraft(ctx context.Context, userID string, req *CreateReplenishmentRequest) (*DraftResult, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, req.RFQID)
	if err != nil {
		return nil, err
	}
	if entity.RFQTerminal(rfq.Status) {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "create replenishment"}
	}

	view, err := s.aggregator.BuildReplenishmentView(ctx, req.RFQID)
	if err != nil {
		return nil, err
	}

	var selections map[string]string
	var unfulfilled []string
	switch req.Strategy {
	case StrategyLowestCost:
		res := SelectLowestCost(view, req.Quantities)
		selections, unfulfilled = res.Selections, res.Unfulfilled
	case StrategyBestAvailability:
		res := SelectBestAvailability(view, req.Quantities)
		selections, unfulfilled = res.Selections, res.Unfulfilled
	case StrategyManual:
		if len(req.Selections) == 0 {
			return nil, &InvalidSelectionError{Reason: "manual strategy requires selections"}
		}
		selections = req.Selections
	default:
		return nil, Validationf("unknown strategy %q", req.Strategy)
	}

	if len(selections) == 0 {
		return nil, &InvalidSelectionError{Reason: "no lines could be selected (no quotes on this rfq)"}
	}

	// Index the view for validation
	linesByID := make(map[string]LineView, len(view))
	quotesByLine := make(map[string]map[string]QuoteView, len(view))
	for _, lv := range view {
		linesByID[lv.RFQLineID] = lv
		qm := make(map[string]QuoteView, len(lv.Quotes))
		for _, q := range lv.Quotes {
			qm[q.QuoteID] = q
		}
		quotesByLine[lv.RFQLineID] = qm
	}

	type draftLine struct {
		lineNo int
		line   entity.ReplenishmentLine
	}
	var drafts []draftLine
	var warnings []string
	estimated := decimal.Zero

	for lineID, quoteID := range selections {
		lv, ok := linesByID[lineID]
		if !ok {
			return nil, &InvalidSelectionError{RFQLineID: lineID, QuoteID: quoteID, Reason: "line does not belong to this rfq"}
		}
		quote, ok := quotesByLine[lineID][quoteID]
		if !ok {
			return nil, &InvalidSelectionError{RFQLineID: lineID, QuoteID: quoteID, Reason: "quote does not belong to this line"}
		}

		qty := lv.QtyRequested
		if q, ok := req.Quantities[lineID]; ok {
			qty = q
		}
		if !qty.IsPositive() {
			return nil, &InvalidSelectionError{RFQLineID: lineID, QuoteID: quoteID, Reason: "qty_to_order must be positive"}
		}
		if qty.GreaterThan(quote.QtyAvailable) {
			warnings = append(warnings, fmt.Sprintf(
				"line %d: ordering %s exceeds vendor availability %s", lv.LineNo, qty, quote.QtyAvailable))
		}

		estimated = estimated.Add(quote.PriceEach.Mul(qty))
		drafts = append(drafts, draftLine{
			lineNo: lv.LineNo,
			line: entity.ReplenishmentLine{
				ID:         uuid.New().String()[:32],
				RFQLineID:  lineID,
				QuoteID:    quoteID,
				QtyToOrder: qty,
			},
		})
	}

	sort.Slice(drafts, func(i, j int) bool { return drafts[i].lineNo < drafts[j].lineNo })

	repl := &entity.Replenishment{
		ID:        uuid.New().String()[:32],
		RFQID:     req.RFQID,
		Status:    entity.ReplenishmentStatusDraft,
		Strategy:  req.Strategy,
		CreatedBy: userID,
	}
	for i, d := range drafts {
		d.line.ReplenishmentID = repl.ID
		d.line.LineNo = i + 1
		repl.Lines = append(repl.Lines, d.line)
	}

	if err := s.replRepo.Create(ctx, repl); err != nil {
		return nil, &DownstreamError{Op: "create replenishment", Err: err}
	}

	s.activityLog.LogActivity(ctx, "replenishment", repl.ID, "", "create", "", entity.ReplenishmentStatusDraft,
		fmt.Sprintf("draft created with %d lines via %s", len(repl.Lines), req.Strategy), userID)

	return &DraftResult{
		Replenishment: repl,
		EstimatedCost: estimated,
		Unfulfilled:   unfulfilled,
		Warnings:      warnings,
	}, nil
}

// Finalize commits a draft: one purchase order per quoted vendor, lines
// in replenishment order. Order creation is idempotent per
// (replenishment, vendor); the DRAFT to FINALIZED flip is a
// compare-and-set so concurrent finalizes serialize to one winner.
func (s *ResolverService) Finalize(ctx context.Context, replID, userID string) (*FinalizeResult, error) {
	repl, err := s.replRepo.FindByID(ctx, replID)
	if err != nil {
		return nil, err
	}
	if repl.Status == entity.ReplenishmentStatusFinalized {
		return nil, &InvalidStateError{Entity: "replenishment", ID: repl.ID, Status: repl.Status, Op: "finalize"}
	}

	rfq, err := s.rfqRepo.FindByID(ctx, repl.RFQID)
	if err != nil {
		return nil, err
	}
	if entity.RFQTerminal(rfq.Status) {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "finalize replenishment"}
	}

	// Partition lines by the quoting vendor, deterministic vendor order
	partitions := make(map[string][]entity.ReplenishmentLine)
	for _, line := range repl.Lines {
		if line.Quote == nil {
			return nil, &InvalidSelectionError{RFQLineID: line.RFQLineID, QuoteID: line.QuoteID, Reason: "quote no longer exists"}
		}
		partitions[line.Quote.VendorID] = append(partitions[line.Quote.VendorID], line)
	}
	vendorIDs := make([]string, 0, len(partitions))
	for vid := range partitions {
		vendorIDs = append(vendorIDs, vid)
	}
	sort.Strings(vendorIDs)

	var succeeded []VendorCommit
	var failed []VendorFailure
	var orders []*entity.PurchaseOrder
	total := decimal.Zero

	for _, vendorID := range vendorIDs {
		po, err := s.commitVendorOrder(ctx, repl, vendorID, partitions[vendorID], userID)
		if err != nil {
			s.logger.Warn("vendor order commit failed",
				zap.String("replenishment_id", repl.ID),
				zap.String("vendor_id", vendorID),
				zap.Error(err))
			failed = append(failed, VendorFailure{VendorID: vendorID, Reason: err.Error()})
			continue
		}
		succeeded = append(succeeded, VendorCommit{VendorID: vendorID, OrderID: po.ID, PONumber: po.PONumber})
		orders = append(orders, po)
		total = total.Add(po.TotalAmount)
	}

	if len(failed) > 0 {
		// Committed orders stay; the draft remains retryable
		return nil, &PartialCommitError{ReplenishmentID: repl.ID, Succeeded: succeeded, Failed: failed}
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		won, err := s.replRepo.MarkFinalized(ctx, tx, repl.ID, now)
		if err != nil {
			return &DownstreamError{Op: "mark finalized", Err: err}
		}
		if !won {
			return &InvalidStateError{Entity: "replenishment", ID: repl.ID, Status: entity.ReplenishmentStatusFinalized, Op: "finalize"}
		}

		poByVendor := make(map[string]string, len(orders))
		for _, po := range orders {
			poByVendor[po.VendorID] = po.ID
		}
		for _, line := range repl.Lines {
			if err := s.replRepo.LinkLineToPO(ctx, tx, line.ID, poByVendor[line.Quote.VendorID]); err != nil {
				return &DownstreamError{Op: "link line to po", Err: err}
			}
		}

		if err := tx.Model(&entity.RFQ{}).Where("id = ?", rfq.ID).
			Update("status", entity.RFQStatusCompleted).Error; err != nil {
			return &DownstreamError{Op: "complete rfq", Err: err}
		}
		return nil
	})
	if err != nil {
		var stateErr *InvalidStateError
		if errors.As(err, &stateErr) {
			return nil, stateErr
		}
		return nil, err
	}

	repl.Status = entity.ReplenishmentStatusFinalized
	repl.FinalizedAt = &now

	s.activityLog.LogActivity(ctx, "replenishment", repl.ID, "", "finalize",
		entity.ReplenishmentStatusDraft, entity.ReplenishmentStatusFinalized,
		fmt.Sprintf("finalized into %d purchase orders", len(orders)), userID)
	s.logger.Info("replenishment finalized",
		zap.String("replenishment_id", repl.ID),
		zap.String("rfq_id", rfq.ID),
		zap.Int("orders", len(orders)))

	return &FinalizeResult{Replenishment: repl, Orders: orders, TotalCost: total}, nil
}

// commitVendorOrder creates (or reuses) the purchase order for one
// vendor partition. The creation key makes retries after a partial
// commit converge on the same order.
func (s *ResolverService) commitVendorOrder(ctx context.Context, repl *entity.Replenishment, vendorID string, lines []entity.ReplenishmentLine, userID string) (*entity.PurchaseOrder, error) {
	key := repl.ID + ":" + vendorID

	existing, err := s.poRepo.FindByCreationKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var po *entity.PurchaseOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.poRepo.GenerateCode(ctx, tx)
		if err != nil {
			return fmt.Errorf("generate po number: %w", err)
		}

		rfqID := repl.RFQID
		replID := repl.ID
		po = &entity.PurchaseOrder{
			ID:              uuid.New().String()[:32],
			PONumber:        code,
			VendorID:        vendorID,
			RFQID:           &rfqID,
			ReplenishmentID: &replID,
			CreationKey:     key,
			Status:          entity.POStatusDraft,
			CreatedBy:       userID,
		}

		total := decimal.Zero
		for i, line := range lines {
			qty := line.QtyToOrder
			price := line.Quote.PriceEach
			total = total.Add(price.Mul(qty))

			poLine := entity.PurchaseOrderLine{
				ID:        uuid.New().String()[:32],
				POID:      po.ID,
				LineNo:    i + 1,
				Qty:       qty,
				PriceEach: price,
			}
			if line.RFQLine != nil {
				poLine.ItemID = line.RFQLine.ItemID
				poLine.GCode = line.RFQLine.GCode
				poLine.Description = line.RFQLine.ItemName
				poLine.UOM = line.RFQLine.UOM
			}
			po.Lines = append(po.Lines, poLine)
		}
		po.TotalAmount = total

		if err := tx.Create(po).Error; err != nil {
			return fmt.Errorf("create po: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activityLog.LogActivity(ctx, "purchase_order", po.ID, po.PONumber, "create", "", entity.POStatusDraft,
		fmt.Sprintf("created from replenishment %s", repl.ID), userID)
	return po, nil
}
