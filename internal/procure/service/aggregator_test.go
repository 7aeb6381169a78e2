package service

import (
	"context"
	"testing"
	"time"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/em591991/gse-inventory/internal/procure/repository"
	"github.com/em591991/gse-inventory/internal/testutil"
	"gorm.io/gorm"
)

func seedQuotedRFQ(t *testing.T, db *gorm.DB) *entity.RFQ {
	t.Helper()

	testutil.SeedVendor(t, db, "vendor-x", "VND-0001", "Vendor X")
	testutil.SeedVendor(t, db, "vendor-y", "VND-0002", "Vendor Y")
	testutil.SeedItem(t, db, "item-1", "G-1001", "Hex Bolt M6")
	testutil.SeedItem(t, db, "item-2", "G-1002", "Washer M6")

	rfq := &entity.RFQ{
		ID:        "rfq-1",
		RFQNumber: "RFQ-2026-0001",
		Status:    entity.RFQStatusSent,
		CreatedBy: "test-user-001",
		Lines: []entity.RFQLine{
			{ID: "line-a", RFQID: "rfq-1", LineNo: 1, ItemID: "item-1", GCode: "G-1001", ItemName: "Hex Bolt M6", QtyRequested: dec("100"), UOM: "EA"},
			{ID: "line-b", RFQID: "rfq-1", LineNo: 2, ItemID: "item-2", GCode: "G-1002", ItemName: "Washer M6", QtyRequested: dec("50"), UOM: "EA"},
		},
		Vendors: []entity.RFQVendor{
			{ID: "rv-x", RFQID: "rfq-1", VendorID: "vendor-x", Status: entity.RFQVendorStatusPending},
			{ID: "rv-y", RFQID: "rfq-1", VendorID: "vendor-y", Status: entity.RFQVendorStatusPending},
		},
	}
	if err := db.Create(rfq).Error; err != nil {
		t.Fatalf("Failed to seed rfq: %v", err)
	}

	quotes := []entity.VendorQuote{
		{ID: "quote-ax", RFQLineID: "line-a", VendorID: "vendor-x", PriceEach: dec("2.00"), QtyAvailable: dec("100"), LeadTimeDays: 7, QuotedAt: time.Now()},
		{ID: "quote-ay", RFQLineID: "line-a", VendorID: "vendor-y", PriceEach: dec("1.80"), QtyAvailable: dec("40"), LeadTimeDays: 3, QuotedAt: time.Now()},
	}
	if err := db.Create(&quotes).Error; err != nil {
		t.Fatalf("Failed to seed quotes: %v", err)
	}
	return rfq
}

func TestBuildReplenishmentViewGroupsQuotesByLine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedQuotedRFQ(t, db)

	svc := NewAggregatorService(repository.NewRFQRepository(db), repository.NewQuoteRepository(db))
	view, err := svc.BuildReplenishmentView(context.Background(), "rfq-1")
	if err != nil {
		t.Fatalf("BuildReplenishmentView failed: %v", err)
	}

	if len(view) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(view))
	}
	if view[0].RFQLineID != "line-a" || view[1].RFQLineID != "line-b" {
		t.Errorf("Lines out of order: %s, %s", view[0].RFQLineID, view[1].RFQLineID)
	}

	if len(view[0].Quotes) != 2 {
		t.Fatalf("Expected 2 quotes on line-a, got %d", len(view[0].Quotes))
	}
	for _, q := range view[0].Quotes {
		if q.Vendor.VendorID == "" || q.Vendor.Name == "" {
			t.Errorf("Quote %s missing vendor snapshot", q.QuoteID)
		}
	}

	// Quoteless line must be present with an empty, non-nil quote list
	if view[1].Quotes == nil {
		t.Error("Expected empty slice for quoteless line, got nil")
	}
	if len(view[1].Quotes) != 0 {
		t.Errorf("Expected no quotes on line-b, got %d", len(view[1].Quotes))
	}

	if !view[0].QtyRequested.Equal(dec("100")) {
		t.Errorf("Expected qty_requested 100, got %s", view[0].QtyRequested)
	}
	if view[0].Item.GCode != "G-1001" {
		t.Errorf("Expected item snapshot G-1001, got %s", view[0].Item.GCode)
	}
}

func TestBuildReplenishmentViewUnknownRFQ(t *testing.T) {
	db := testutil.SetupTestDB(t)

	svc := NewAggregatorService(repository.NewRFQRepository(db), repository.NewQuoteRepository(db))
	if _, err := svc.BuildReplenishmentView(context.Background(), "missing"); err != repository.ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
