package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RFQService RFQ lifecycle and quote collection
type RFQService struct {
	rfqRepo     *repository.RFQRepository
	quoteRepo   *repository.QuoteRepository
	vendorRepo  *repository.VendorRepository
	itemRepo    *repository.ItemRepository
	activityLog *repository.ActivityLogRepository
	logger      *zap.Logger
}

func NewRFQService(
	rfqRepo *repository.RFQRepository,
	quoteRepo *repository.QuoteRepository,
	vendorRepo *repository.VendorRepository,
	itemRepo *repository.ItemRepository,
	activityLog *repository.ActivityLogRepository,
	logger *zap.Logger,
) *RFQService {
	return &RFQService{
		rfqRepo:     rfqRepo,
		quoteRepo:   quoteRepo,
		vendorRepo:  vendorRepo,
		itemRepo:    itemRepo,
		activityLog: activityLog,
		logger:      logger,
	}
}

// CreateRFQLineRequest one requested line
type CreateRFQLineRequest struct {
	ItemID       string          `json:"item_id" binding:"required"`
	QtyRequested decimal.Decimal `json:"qty_requested" binding:"required"`
	Notes        string          `json:"notes"`
}

// CreateRFQRequest create request
type CreateRFQRequest struct {
	Description   string                 `json:"description"`
	QuoteDeadline *time.Time             `json:"quote_deadline"`
	Notes         string                 `json:"notes"`
	Lines         []CreateRFQLineRequest `json:"lines"`
	VendorIDs     []string               `json:"vendor_ids"`
}

// UpdateRFQRequest update request, DRAFT only
type UpdateRFQRequest struct {
	Description   *string                `json:"description"`
	QuoteDeadline *time.Time             `json:"quote_deadline"`
	Notes         *string                `json:"notes"`
	Lines         []CreateRFQLineRequest `json:"lines"`
	VendorIDs     []string               `json:"vendor_ids"`
}

// QuoteInput one quoted line from a vendor
type QuoteInput struct {
	RFQLineID              string          `json:"rfq_line_id" binding:"required"`
	PriceEach              decimal.Decimal `json:"price_each" binding:"required"`
	QtyAvailable           decimal.Decimal `json:"qty_available"`
	LeadTimeDays           int             `json:"lead_time_days"`
	Manufacturer           string          `json:"manufacturer"`
	ManufacturerPartNumber string          `json:"manufacturer_part_number"`
	VendorPartNumber       string          `json:"vendor_part_number"`
	ValidUntil             *time.Time      `json:"valid_until"`
	Notes                  string          `json:"notes"`
}

// SubmitQuotesRequest quotes from one vendor
type SubmitQuotesRequest struct {
	VendorID string       `json:"vendor_id" binding:"required"`
	Quotes   []QuoteInput `json:"quotes" binding:"required,min=1"`
}

// ImportResult outcome of a bulk quote import
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// List lists RFQs
func (s *RFQService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.RFQ, int64, error) {
	return s.rfqRepo.FindAll(ctx, page, pageSize, filters)
}

// Get loads one RFQ with lines and invited vendors
func (s *RFQService) Get(ctx context.Context, id string) (*entity.RFQ, error) {
	return s.rfqRepo.FindByID(ctx, id)
}

// Create creates a draft RFQ with its lines and vendor invitations
func (s *RFQService) Create(ctx context.Context, userID string, req *CreateRFQRequest) (*entity.RFQ, error) {
	code, err := s.rfqRepo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	rfq := &entity.RFQ{
		ID:            uuid.New().String()[:32],
		RFQNumber:     code,
		Description:   req.Description,
		Status:        entity.RFQStatusDraft,
		QuoteDeadline: req.QuoteDeadline,
		CreatedBy:     userID,
		Notes:         req.Notes,
	}

	lines, err := s.buildLines(ctx, rfq.ID, req.Lines)
	if err != nil {
		return nil, err
	}
	rfq.Lines = lines

	for _, vendorID := range req.VendorIDs {
		vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
		if err != nil {
			return nil, fmt.Errorf("vendor %s: %w", vendorID, err)
		}
		link := entity.RFQVendor{
			ID:       uuid.New().String()[:32],
			RFQID:    rfq.ID,
			VendorID: vendor.ID,
			Status:   entity.RFQVendorStatusPending,
		}
		for _, c := range vendor.Contacts {
			if c.IsPrimary {
				link.ContactName = c.Name
				link.ContactEmail = c.Email
				break
			}
		}
		rfq.Vendors = append(rfq.Vendors, link)
	}

	if err := s.rfqRepo.Create(ctx, rfq); err != nil {
		return nil, err
	}

	s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.RFQNumber, "create", "", entity.RFQStatusDraft,
		fmt.Sprintf("created with %d lines, %d vendors", len(rfq.Lines), len(rfq.Vendors)), userID)
	return rfq, nil
}

func (s *RFQService) buildLines(ctx context.Context, rfqID string, reqs []CreateRFQLineRequest) ([]entity.RFQLine, error) {
	var lines []entity.RFQLine
	for i, lr := range reqs {
		item, err := s.itemRepo.FindByID(ctx, lr.ItemID)
		if err != nil {
			return nil, fmt.Errorf("line %d item %s: %w", i+1, lr.ItemID, err)
		}
		if !lr.QtyRequested.IsPositive() {
			return nil, Validationf("line %d: qty_requested must be positive", i+1)
		}
		lines = append(lines, entity.RFQLine{
			ID:           uuid.New().String()[:32],
			RFQID:        rfqID,
			LineNo:       i + 1,
			ItemID:       item.ID,
			GCode:        item.GCode,
			ItemName:     item.Name,
			QtyRequested: lr.QtyRequested,
			UOM:          item.UOM,
			Notes:        lr.Notes,
		})
	}
	return lines, nil
}

// Update edits a draft RFQ. Lines and vendor invitations, when given,
// replace the existing sets.
func (s *RFQService) Update(ctx context.Context, id, userID string, req *UpdateRFQRequest) (*entity.RFQ, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQStatusDraft {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "update"}
	}

	if req.Description != nil {
		rfq.Description = *req.Description
	}
	if req.QuoteDeadline != nil {
		rfq.QuoteDeadline = req.QuoteDeadline
	}
	if req.Notes != nil {
		rfq.Notes = *req.Notes
	}

	if req.Lines != nil {
		lines, err := s.buildLines(ctx, rfq.ID, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := s.rfqRepo.ReplaceLines(ctx, rfq.ID, lines); err != nil {
			return nil, err
		}
		rfq.Lines = lines
	}
	if req.VendorIDs != nil {
		var links []entity.RFQVendor
		for _, vendorID := range req.VendorIDs {
			vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
			if err != nil {
				return nil, fmt.Errorf("vendor %s: %w", vendorID, err)
			}
			links = append(links, entity.RFQVendor{
				ID:       uuid.New().String()[:32],
				RFQID:    rfq.ID,
				VendorID: vendor.ID,
				Status:   entity.RFQVendorStatusPending,
			})
		}
		if err := s.rfqRepo.ReplaceVendorLinks(ctx, rfq.ID, links); err != nil {
			return nil, err
		}
		rfq.Vendors = links
	}

	header := *rfq
	header.Lines = nil
	header.Vendors = nil
	if err := s.rfqRepo.Update(ctx, &header); err != nil {
		return nil, err
	}
	return s.rfqRepo.FindByID(ctx, id)
}

// Delete removes a draft RFQ
func (s *RFQService) Delete(ctx context.Context, id, userID string) error {
	rfq, err := s.rfqRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rfq.Status != entity.RFQStatusDraft {
		return &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "delete"}
	}
	if err := s.rfqRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.RFQNumber, "delete", rfq.Status, "", "draft deleted", userID)
	return nil
}

// Send issues a draft RFQ to its invited vendors
func (s *RFQService) Send(ctx context.Context, id, userID string) (*entity.RFQ, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQStatusDraft {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "send"}
	}
	if len(rfq.Lines) == 0 {
		return nil, Validationf("rfq %s has no lines", rfq.RFQNumber)
	}
	if len(rfq.Vendors) == 0 {
		return nil, Validationf("rfq %s has no invited vendors", rfq.RFQNumber)
	}

	if err := s.rfqRepo.UpdateStatus(ctx, id, entity.RFQStatusDraft, entity.RFQStatusSent); err != nil {
		if err == repository.ErrNotFound {
			return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "send"}
		}
		return nil, err
	}

	now := time.Now()
	for i := range rfq.Vendors {
		rfq.Vendors[i].Status = entity.RFQVendorStatusPending
		rfq.Vendors[i].SentAt = &now
		if err := s.rfqRepo.UpdateVendorLink(ctx, &rfq.Vendors[i]); err != nil {
			return nil, err
		}
	}
	if err := s.rfqRepo.SetSentAt(ctx, id, now); err != nil {
		return nil, err
	}

	s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.RFQNumber, "send",
		entity.RFQStatusDraft, entity.RFQStatusSent,
		fmt.Sprintf("sent to %d vendors", len(rfq.Vendors)), userID)
	s.logger.Info("rfq sent", zap.String("rfq_id", rfq.ID), zap.Int("vendors", len(rfq.Vendors)))

	return s.rfqRepo.FindByID(ctx, id)
}

// Cancel cancels an RFQ that has not completed
func (s *RFQService) Cancel(ctx context.Context, id, userID string) (*entity.RFQ, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.RFQTerminal(rfq.Status) {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "cancel"}
	}

	if err := s.rfqRepo.UpdateStatus(ctx, id, rfq.Status, entity.RFQStatusCancelled); err != nil {
		if err == repository.ErrNotFound {
			return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "cancel"}
		}
		return nil, err
	}

	s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.RFQNumber, "cancel",
		rfq.Status, entity.RFQStatusCancelled, "rfq cancelled", userID)

	rfq.Status = entity.RFQStatusCancelled
	return rfq, nil
}

// ListQuotes lists all quotes across an RFQ's lines
func (s *RFQService) ListQuotes(ctx context.Context, rfqID string) ([]entity.VendorQuote, error) {
	if _, err := s.rfqRepo.FindByID(ctx, rfqID); err != nil {
		return nil, err
	}
	return s.quoteRepo.FindByRFQ(ctx, rfqID)
}

// SubmitQuotes records or corrects one vendor's quotes. A quote already
// referenced by a replenishment line cannot be changed.
func (s *RFQService) SubmitQuotes(ctx context.Context, rfqID, userID string, req *SubmitQuotesRequest) ([]entity.VendorQuote, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQStatusSent && rfq.Status != entity.RFQStatusQuoted {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "submit quotes"}
	}

	link, err := s.rfqRepo.FindVendorLink(ctx, rfqID, req.VendorID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, Validationf("vendor %s was not invited to rfq %s", req.VendorID, rfq.RFQNumber)
		}
		return nil, err
	}

	lineIDs := make(map[string]bool, len(rfq.Lines))
	for _, line := range rfq.Lines {
		lineIDs[line.ID] = true
	}

	now := time.Now()
	var saved []entity.VendorQuote
	for _, in := range req.Quotes {
		if !lineIDs[in.RFQLineID] {
			return nil, Validationf("line %s does not belong to rfq %s", in.RFQLineID, rfq.RFQNumber)
		}
		if in.PriceEach.IsNegative() {
			return nil, Validationf("line %s: price_each cannot be negative", in.RFQLineID)
		}
		if in.QtyAvailable.IsNegative() {
			return nil, Validationf("line %s: qty_available cannot be negative", in.RFQLineID)
		}
		if in.LeadTimeDays < 0 {
			return nil, Validationf("line %s: lead_time_days cannot be negative", in.RFQLineID)
		}

		quote, err := s.upsertQuote(ctx, in.RFQLineID, req.VendorID, &in, now)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *quote)
	}

	if link.Status != entity.RFQVendorStatusQuoted {
		link.Status = entity.RFQVendorStatusQuoted
		link.RespondedAt = &now
		if err := s.rfqRepo.UpdateVendorLink(ctx, link); err != nil {
			return nil, err
		}
	}

	if err := s.maybeMarkQuoted(ctx, rfq); err != nil {
		return nil, err
	}

	s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.RFQNumber, "quote",
		"", "", fmt.Sprintf("vendor %s quoted %d lines", req.VendorID, len(saved)), userID)
	return saved, nil
}

func (s *RFQService) upsertQuote(ctx context.Context, lineID, vendorID string, in *QuoteInput, now time.Time) (*entity.VendorQuote, error) {
	existing, err := s.quoteRepo.FindByLineAndVendor(ctx, lineID, vendorID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}

	if existing != nil {
		refs, err := s.quoteRepo.CountReferences(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		if refs > 0 {
			return nil, &InvalidStateError{Entity: "quote", ID: existing.ID, Status: "referenced", Op: "update"}
		}
		existing.PriceEach = in.PriceEach
		existing.QtyAvailable = in.QtyAvailable
		existing.LeadTimeDays = in.LeadTimeDays
		existing.Manufacturer = in.Manufacturer
		existing.ManufacturerPartNumber = in.ManufacturerPartNumber
		existing.VendorPartNumber = in.VendorPartNumber
		existing.ValidUntil = in.ValidUntil
		existing.QuotedAt = now
		existing.Notes = in.Notes
		if err := s.quoteRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	quote := &entity.VendorQuote{
		ID:                     uuid.New().String()[:32],
		RFQLineID:              lineID,
		VendorID:               vendorID,
		PriceEach:              in.PriceEach,
		QtyAvailable:           in.QtyAvailable,
		LeadTimeDays:           in.LeadTimeDays,
		Manufacturer:           in.Manufacturer,
		ManufacturerPartNumber: in.ManufacturerPartNumber,
		VendorPartNumber:       in.VendorPartNumber,
		ValidUntil:             in.ValidUntil,
		QuotedAt:               now,
		Notes:                  in.Notes,
	}
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// maybeMarkQuoted flips SENT to QUOTED once every invitation has a
// response. Losing the CAS means someone else flipped it first.
func (s *RFQService) maybeMarkQuoted(ctx context.Context, rfq *entity.RFQ) error {
	if rfq.Status != entity.RFQStatusSent {
		return nil
	}
	pending, err := s.rfqRepo.CountPendingVendors(ctx, rfq.ID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}
	err = s.rfqRepo.UpdateStatus(ctx, rfq.ID, entity.RFQStatusSent, entity.RFQStatusQuoted)
	if err != nil && err != repository.ErrNotFound {
		return err
	}
	rfq.Status = entity.RFQStatusQuoted
	return nil
}

// DeclineVendor records that an invited vendor will not quote
func (s *RFQService) DeclineVendor(ctx context.Context, rfqID, vendorID, userID string) (*entity.RFQVendor, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQStatusSent && rfq.Status != entity.RFQStatusQuoted {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "decline"}
	}

	link, err := s.rfqRepo.FindVendorLink(ctx, rfqID, vendorID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, Validationf("vendor %s was not invited to rfq %s", vendorID, rfq.RFQNumber)
		}
		return nil, err
	}
	if link.Status == entity.RFQVendorStatusDeclined {
		return link, nil
	}

	now := time.Now()
	link.Status = entity.RFQVendorStatusDeclined
	link.RespondedAt = &now
	if err := s.rfqRepo.UpdateVendorLink(ctx, link); err != nil {
		return nil, err
	}

	if err := s.maybeMarkQuoted(ctx, rfq); err != nil {
		return nil, err
	}

	s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.RFQNumber, "decline",
		"", "", fmt.Sprintf("vendor %s declined", vendorID), userID)
	return link, nil
}

// CloseQuoting ends the quoting window. Vendors that never responded
// are marked NO_RESPONSE and the RFQ moves to QUOTED so a replenishment
// can be drafted from whatever quotes came in. An RFQ with a deadline
// cannot be closed before the deadline passes.
func (s *RFQService) CloseQuoting(ctx context.Context, id, userID string) (*entity.RFQ, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQStatusSent {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "close quoting"}
	}
	if rfq.QuoteDeadline != nil && time.Now().Before(*rfq.QuoteDeadline) {
		return nil, Validationf("rfq %s quote deadline %s has not passed",
			rfq.RFQNumber, rfq.QuoteDeadline.Format(time.RFC3339))
	}

	expired, err := s.rfqRepo.ExpirePendingVendors(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.rfqRepo.UpdateStatus(ctx, id, entity.RFQStatusSent, entity.RFQStatusQuoted); err != nil {
		if err == repository.ErrNotFound {
			return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "close quoting"}
		}
		return nil, err
	}

	s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.RFQNumber, "close_quoting",
		entity.RFQStatusSent, entity.RFQStatusQuoted,
		fmt.Sprintf("quoting closed, %d vendors marked no response", expired), userID)
	s.logger.Info("rfq quoting closed",
		zap.String("rfq_id", rfq.ID), zap.Int64("no_response", expired))

	return s.rfqRepo.FindByID(ctx, id)
}

// === CSV quote import ===

// QuoteTemplateCSV renders a CSV template pre-filled with the RFQ's lines
func (s *RFQService) QuoteTemplateCSV(ctx context.Context, rfqID string) ([]byte, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	header := []string{
		"line_no", "g_code", "item_name", "qty_requested", "uom",
		"price_each", "qty_available", "lead_time_days",
		"manufacturer", "manufacturer_part_number", "vendor_part_number", "notes",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, line := range rfq.Lines {
		row := []string{
			strconv.Itoa(line.LineNo),
			line.GCode,
			line.ItemName,
			line.QtyRequested.String(),
			line.UOM,
			"", "", "", "", "", "", "",
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// ImportQuotesCSV parses a filled quote template for one vendor. Valid
// rows are committed, bad rows are reported back; a partially bad file
// still imports its good rows.
func (s *RFQService) ImportQuotesCSV(ctx context.Context, rfqID, vendorID, userID string, file io.Reader) (*ImportResult, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != entity.RFQStatusSent && rfq.Status != entity.RFQStatusQuoted {
		return nil, &InvalidStateError{Entity: "rfq", ID: rfq.ID, Status: rfq.Status, Op: "import quotes"}
	}
	link, err := s.rfqRepo.FindVendorLink(ctx, rfqID, vendorID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, Validationf("vendor %s was not invited to rfq %s", vendorID, rfq.RFQNumber)
		}
		return nil, err
	}

	linesByNo := make(map[int]*entity.RFQLine, len(rfq.Lines))
	for i := range rfq.Lines {
		linesByNo[rfq.Lines[i].LineNo] = &rfq.Lines[i]
	}

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"line_no", "price_each"} {
		if _, ok := col[required]; !ok {
			return nil, Validationf("csv missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	result := &ImportResult{}
	now := time.Now()
	rowNo := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNo++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNo, err))
			continue
		}

		lineNo, err := strconv.Atoi(cell(row, "line_no"))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid line_no", rowNo))
			continue
		}
		line, ok := linesByNo[lineNo]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: line %d not on this rfq", rowNo, lineNo))
			continue
		}

		priceStr := cell(row, "price_each")
		if priceStr == "" {
			// blank price means the vendor is not quoting this line
			continue
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid price_each %q", rowNo, priceStr))
			continue
		}

		qtyAvail := decimal.Zero
		if v := cell(row, "qty_available"); v != "" {
			qtyAvail, err = decimal.NewFromString(v)
			if err != nil || qtyAvail.IsNegative() {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid qty_available %q", rowNo, v))
				continue
			}
		}
		leadTime := 0
		if v := cell(row, "lead_time_days"); v != "" {
			leadTime, err = strconv.Atoi(v)
			if err != nil || leadTime < 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid lead_time_days %q", rowNo, v))
				continue
			}
		}

		in := &QuoteInput{
			RFQLineID:              line.ID,
			PriceEach:              price,
			QtyAvailable:           qtyAvail,
			LeadTimeDays:           leadTime,
			Manufacturer:           cell(row, "manufacturer"),
			ManufacturerPartNumber: cell(row, "manufacturer_part_number"),
			VendorPartNumber:       cell(row, "vendor_part_number"),
			Notes:                  cell(row, "notes"),
		}
		if _, err := s.upsertQuote(ctx, line.ID, vendorID, in, now); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNo, err))
			continue
		}
		result.Imported++
	}

	if result.Imported > 0 {
		if link.Status != entity.RFQVendorStatusQuoted {
			link.Status = entity.RFQVendorStatusQuoted
			link.RespondedAt = &now
			if err := s.rfqRepo.UpdateVendorLink(ctx, link); err != nil {
				return nil, err
			}
		}
		if err := s.maybeMarkQuoted(ctx, rfq); err != nil {
			return nil, err
		}
		s.activityLog.LogActivity(ctx, "rfq", rfq.ID, rfq.RFQNumber, "quote_import",
			"", "", fmt.Sprintf("vendor %s imported %d quotes (%d errors)", vendorID, result.Imported, len(result.Errors)), userID)
	}
	return result, nil
}
