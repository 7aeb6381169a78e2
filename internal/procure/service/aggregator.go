package service

import (
	"context"

	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/shopspring/decimal"
)

// ItemRef item identity carried on a line view
type ItemRef struct {
	ItemID string `json:"item_id"`
	GCode  string `json:"g_code"`
	Name   string `json:"name"`
}

// VendorRef vendor identity carried on a quote view
type VendorRef struct {
	VendorID string `json:"vendor_id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
}

// QuoteView one vendor's quote as seen in the replenishment view
type QuoteView struct {
	QuoteID                string          `json:"quote_id"`
	Vendor                 VendorRef       `json:"vendor"`
	PriceEach              decimal.Decimal `json:"price_each"`
	QtyAvailable           decimal.Decimal `json:"qty_available"`
	LeadTimeDays           int             `json:"lead_time_days"`
	Manufacturer           string          `json:"manufacturer"`
	ManufacturerPartNumber string          `json:"manufacturer_part_number"`
}

// LineView one RFQ line with all quotes received against it. Lines with
// no quotes are still present, with an empty Quotes slice.
type LineView struct {
	RFQLineID    string          `json:"rfq_line_id"`
	LineNo       int             `json:"line_no"`
	Item         ItemRef         `json:"item"`
	QtyRequested decimal.Decimal `json:"qty_requested"`
	UOM          string          `json:"uom"`
	Quotes       []QuoteView     `json:"quotes"`
}

// AggregatorService builds the per-line quote comparison view
type AggregatorService struct {
	rfqRepo   *repository.RFQRepository
	quoteRepo *repository.QuoteRepository
}

func NewAggregatorService(rfqRepo *repository.RFQRepository, quoteRepo *repository.QuoteRepository) *AggregatorService {
	return &AggregatorService{rfqRepo: rfqRepo, quoteRepo: quoteRepo}
}

// BuildReplenishmentView re-reads the RFQ and its quotes and returns one
// view per line, ordered by line number. Quote order within a line is
// not specified; consumers sort.
func (s *AggregatorService) BuildReplenishmentView(ctx context.Context, rfqID string) ([]LineView, error) {
	rfq, err := s.rfqRepo.FindByID(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quoteRepo.FindByRFQ(ctx, rfqID)
	if err != nil {
		return nil, err
	}

	byLine := make(map[string][]QuoteView, len(rfq.Lines))
	for _, q := range quotes {
		view := QuoteView{
			QuoteID:                q.ID,
			PriceEach:              q.PriceEach,
			QtyAvailable:           q.QtyAvailable,
			LeadTimeDays:           q.LeadTimeDays,
			Manufacturer:           q.Manufacturer,
			ManufacturerPartNumber: q.ManufacturerPartNumber,
		}
		view.Vendor.VendorID = q.VendorID
		if q.Vendor != nil {
			view.Vendor.Code = q.Vendor.Code
			view.Vendor.Name = q.Vendor.Name
		}
		byLine[q.RFQLineID] = append(byLine[q.RFQLineID], view)
	}

	views := make([]LineView, 0, len(rfq.Lines))
	for _, line := range rfq.Lines {
		lineQuotes := byLine[line.ID]
		if lineQuotes == nil {
			lineQuotes = []QuoteView{}
		}
		views = append(views, LineView{
			RFQLineID:    line.ID,
			LineNo:       line.LineNo,
			Item:         ItemRef{ItemID: line.ItemID, GCode: line.GCode, Name: line.ItemName},
			QtyRequested: line.QtyRequested,
			UOM:          line.UOM,
			Quotes:       lineQuotes,
		})
	}

	return views, nil
}
