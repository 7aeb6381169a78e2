package handler

import (
	"testing"

	"github.com/em591991/gse-inventory/internal/procure/entity"
	"github.com/em591991/gse-inventory/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// quotedRFQ drives a two-line RFQ through quoting so that resolver
// tests start from a realistic state:
//
//	line 1: vendor-x at 2.00 (avail 200), vendor-y at 1.80 (avail 40)
//	line 2: vendor-x at 5.00 (avail 200), no quote from vendor-y
func quotedRFQ(t *testing.T, db *gorm.DB, r *gin.Engine, token string) (string, map[int]string) {
	t.Helper()

	testutil.SeedVendor(t, db, "vendor-x", "VND-0001", "Vendor X")
	testutil.SeedVendor(t, db, "vendor-y", "VND-0002", "Vendor Y")
	testutil.SeedItem(t, db, "item-1", "G-1001", "Hex Bolt M6")
	testutil.SeedItem(t, db, "item-2", "G-1002", "Washer M6")

	rfqID, lineIDs := createTestRFQ(t, r, token, []string{"item-1", "item-2"}, []string{"vendor-x", "vendor-y"})
	testutil.DoRequest(r, "POST", "/api/v1/rfqs/"+rfqID+"/send", nil, token)

	w := testutil.DoRequest(r, "POST", "/api/v1/rfqs/"+rfqID+"/quotes", map[string]interface{}{
		"vendor_id": "vendor-x",
		"quotes": []map[string]interface{}{
			{"rfq_line_id": lineIDs[1], "price_each": "2.00", "qty_available": "200", "lead_time_days": 7},
			{"rfq_line_id": lineIDs[2], "price_each": "5.00", "qty_available": "200", "lead_time_days": 7},
		},
	}, token)
	if w.Code != 201 {
		t.Fatalf("Vendor X quote submission failed: %d %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "POST", "/api/v1/rfqs/"+rfqID+"/quotes", map[string]interface{}{
		"vendor_id": "vendor-y",
		"quotes": []map[string]interface{}{
			{"rfq_line_id": lineIDs[1], "price_each": "1.80", "qty_available": "40", "lead_time_days": 3},
		},
	}, token)
	if w.Code != 201 {
		t.Fatalf("Vendor Y quote submission failed: %d %s", w.Code, w.Body.String())
	}

	return rfqID, lineIDs
}

func createDraft(t *testing.T, r *gin.Engine, token string, body map[string]interface{}) string {
	t.Helper()
	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments", body, token)
	if w.Code != 201 {
		t.Fatalf("Create draft failed: %d %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	repl := data["replenishment"].(map[string]interface{})
	return repl["id"].(string)
}

func TestCreateDraftBestAvailability(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments", map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "best_availability",
	}, token)
	if w.Code != 201 {
		t.Fatalf("Create draft failed: %d %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	// Vendor X covers both lines: 100*2.00 + 100*5.00
	cost, err := decimal.NewFromString(data["estimated_cost"].(string))
	if err != nil {
		t.Fatalf("Bad estimated_cost: %v", err)
	}
	if !cost.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected estimated cost 700, got %s", cost)
	}

	repl := data["replenishment"].(map[string]interface{})
	if repl["status"].(string) != entity.ReplenishmentStatusDraft {
		t.Errorf("Expected DRAFT, got %v", repl["status"])
	}
	if lines := repl["lines"].([]interface{}); len(lines) != 2 {
		t.Errorf("Expected 2 draft lines, got %d", len(lines))
	}

	var dbLines []entity.ReplenishmentLine
	db.Where("replenishment_id = ?", repl["id"].(string)).Order("line_no").Find(&dbLines)
	for _, line := range dbLines {
		var quote entity.VendorQuote
		db.First(&quote, "id = ?", line.QuoteID)
		if quote.VendorID != "vendor-x" {
			t.Errorf("Line %d expected vendor-x quote, got %s", line.LineNo, quote.VendorID)
		}
	}
}

func TestCreateDraftLowestCostSplitsVendors(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments", map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "lowest_cost",
	}, token)
	if w.Code != 201 {
		t.Fatalf("Create draft failed: %d %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	// Line 1 goes to vendor Y at 1.80, line 2 to vendor X at 5.00
	cost, _ := decimal.NewFromString(data["estimated_cost"].(string))
	if !cost.Equal(decimal.NewFromInt(680)) {
		t.Errorf("Expected estimated cost 680, got %s", cost)
	}
	// Vendor Y only had 40 available against 100 requested
	warnings, _ := data["warnings"].([]interface{})
	if len(warnings) == 0 {
		t.Error("Expected an availability warning for vendor Y's line")
	}
}

func TestCreateDraftManualSelection(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, lineIDs := quotedRFQ(t, db, r, token)

	var quoteY entity.VendorQuote
	db.First(&quoteY, "rfq_line_id = ? AND vendor_id = ?", lineIDs[1], "vendor-y")

	replID := createDraft(t, r, token, map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "manual",
		"selections": map[string]string{
			lineIDs[1]: quoteY.ID,
		},
		"quantities": map[string]string{
			lineIDs[1]: "40",
		},
	})

	var dbLines []entity.ReplenishmentLine
	db.Where("replenishment_id = ?", replID).Find(&dbLines)
	if len(dbLines) != 1 {
		t.Fatalf("Expected 1 draft line, got %d", len(dbLines))
	}
	if dbLines[0].QuoteID != quoteY.ID {
		t.Errorf("Expected manual quote %s, got %s", quoteY.ID, dbLines[0].QuoteID)
	}
	if !dbLines[0].QtyToOrder.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected qty 40, got %s", dbLines[0].QtyToOrder)
	}
}

func TestCreateDraftManualRejectsCrossLineQuote(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, lineIDs := quotedRFQ(t, db, r, token)

	var quoteY entity.VendorQuote
	db.First(&quoteY, "rfq_line_id = ? AND vendor_id = ?", lineIDs[1], "vendor-y")

	// quoteY belongs to line 1, not line 2
	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments", map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "manual",
		"selections": map[string]string{
			lineIDs[2]: quoteY.ID,
		},
	}, token)
	if w.Code != 400 {
		t.Fatalf("Expected 400 for cross-line selection, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateDraftManualRequiresSelections(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments", map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "manual",
	}, token)
	if w.Code != 400 {
		t.Fatalf("Expected 400 for manual without selections, got %d", w.Code)
	}
}

func TestCreateDraftUnknownStrategyRejected(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments", map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "cheapest_maybe",
	}, token)
	if w.Code != 400 {
		t.Fatalf("Expected 400 for unknown strategy, got %d", w.Code)
	}
}

func TestCreateDraftCancelledRFQRejected(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	testutil.DoRequest(r, "POST", "/api/v1/rfqs/"+rfqID+"/cancel", nil, token)

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments", map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "lowest_cost",
	}, token)
	if w.Code != 409 {
		t.Fatalf("Expected 409 drafting from a cancelled rfq, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFinalizeSingleVendor(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	replID := createDraft(t, r, token, map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "best_availability",
	})

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, token)
	if w.Code != 200 {
		t.Fatalf("Finalize failed: %d %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if orders := data["orders"].([]interface{}); len(orders) != 1 {
		t.Fatalf("Expected 1 purchase order, got %d", len(orders))
	}

	var po entity.PurchaseOrder
	if err := db.Preload("Lines").First(&po, "creation_key = ?", replID+":vendor-x").Error; err != nil {
		t.Fatalf("Purchase order not persisted: %v", err)
	}
	if !po.TotalAmount.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected PO total 700, got %s", po.TotalAmount)
	}
	if len(po.Lines) != 2 {
		t.Errorf("Expected 2 PO lines, got %d", len(po.Lines))
	}

	var repl entity.Replenishment
	db.Preload("Lines").First(&repl, "id = ?", replID)
	if repl.Status != entity.ReplenishmentStatusFinalized {
		t.Errorf("Expected FINALIZED, got %s", repl.Status)
	}
	if repl.FinalizedAt == nil {
		t.Error("Expected finalized_at to be stamped")
	}
	for _, line := range repl.Lines {
		if line.PurchaseOrderID == nil || *line.PurchaseOrderID != po.ID {
			t.Errorf("Line %d not linked to the purchase order", line.LineNo)
		}
	}

	var rfq entity.RFQ
	db.First(&rfq, "id = ?", rfqID)
	if rfq.Status != entity.RFQStatusCompleted {
		t.Errorf("Expected rfq COMPLETED after finalize, got %s", rfq.Status)
	}
}

func TestFinalizeSplitsOrdersPerVendor(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	replID := createDraft(t, r, token, map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "lowest_cost",
	})

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, token)
	if w.Code != 200 {
		t.Fatalf("Finalize failed: %d %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if orders := data["orders"].([]interface{}); len(orders) != 2 {
		t.Fatalf("Expected 2 purchase orders, got %d", len(orders))
	}

	var poX, poY entity.PurchaseOrder
	if err := db.First(&poX, "creation_key = ?", replID+":vendor-x").Error; err != nil {
		t.Fatalf("Vendor X order missing: %v", err)
	}
	if err := db.First(&poY, "creation_key = ?", replID+":vendor-y").Error; err != nil {
		t.Fatalf("Vendor Y order missing: %v", err)
	}
	if !poX.TotalAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected vendor X total 500, got %s", poX.TotalAmount)
	}
	if !poY.TotalAmount.Equal(decimal.NewFromInt(180)) {
		t.Errorf("Expected vendor Y total 180, got %s", poY.TotalAmount)
	}
	if poX.PONumber == poY.PONumber {
		t.Errorf("Orders share a number: %s", poX.PONumber)
	}
}

func TestFinalizeTwiceConflicts(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	replID := createDraft(t, r, token, map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "best_availability",
	})

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, token)
	if w.Code != 200 {
		t.Fatalf("First finalize failed: %d %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, token)
	if w.Code != 409 {
		t.Fatalf("Expected 409 on second finalize, got %d: %s", w.Code, w.Body.String())
	}

	// No duplicate orders
	var count int64
	db.Model(&entity.PurchaseOrder{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 purchase order, got %d", count)
	}
}

func TestReplenishmentAuthz(t *testing.T) {
	db, r := setupProcureTest(t)
	admin := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, admin)

	noPerm := testutil.GenerateTestToken("user-np", "No Perm", "np@test.local", []string{"viewer"}, nil)
	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments", map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "lowest_cost",
	}, noPerm)
	if w.Code != 403 {
		t.Fatalf("Expected 403 without procurement:write, got %d: %s", w.Code, w.Body.String())
	}

	// Write permission alone is not enough to finalize
	writer := testutil.GenerateTestToken("user-w", "Writer", "w@test.local", []string{"viewer"}, []string{"procurement:write"})
	replID := createDraft(t, r, writer, map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "lowest_cost",
	})

	w = testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, writer)
	if w.Code != 403 {
		t.Fatalf("Expected 403 without purchasing role, got %d: %s", w.Code, w.Body.String())
	}

	purchaser := testutil.GenerateTestToken("user-p", "Purchaser", "p@test.local", []string{"purchasing"}, []string{"procurement:write"})
	w = testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, purchaser)
	if w.Code != 200 {
		t.Fatalf("Purchasing role should finalize, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFinalizePartialCommitAndRetry(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	// lowest_cost splits across both vendors
	replID := createDraft(t, r, token, map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "lowest_cost",
	})

	// Make vendor Y's order insert fail while vendor X's goes through
	if err := db.Exec("ALTER TABLE purchase_orders ADD CONSTRAINT deny_vendor_y CHECK (vendor_id <> 'vendor-y')").Error; err != nil {
		t.Fatalf("Failed to add fault constraint: %v", err)
	}

	w := testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, token)
	if w.Code != 502 {
		t.Fatalf("Expected 502 on partial commit, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	if code := int(resp["code"].(float64)); code != 50200 {
		t.Errorf("Expected code 50200, got %d", code)
	}
	data := resp["data"].(map[string]interface{})
	succeeded := data["succeeded"].([]interface{})
	failed := data["failed"].([]interface{})
	if len(succeeded) != 1 || len(failed) != 1 {
		t.Fatalf("Expected 1 succeeded and 1 failed vendor, got %d/%d", len(succeeded), len(failed))
	}
	if vid := succeeded[0].(map[string]interface{})["vendor_id"].(string); vid != "vendor-x" {
		t.Errorf("Expected vendor-x committed, got %s", vid)
	}
	if vid := failed[0].(map[string]interface{})["vendor_id"].(string); vid != "vendor-y" {
		t.Errorf("Expected vendor-y failed, got %s", vid)
	}

	// Committed order stands, the draft stays retryable
	var poX entity.PurchaseOrder
	if err := db.First(&poX, "creation_key = ?", replID+":vendor-x").Error; err != nil {
		t.Fatalf("Committed vendor X order missing: %v", err)
	}
	var repl entity.Replenishment
	db.First(&repl, "id = ?", replID)
	if repl.Status != entity.ReplenishmentStatusDraft {
		t.Errorf("Expected DRAFT after partial commit, got %s", repl.Status)
	}
	var rfq entity.RFQ
	db.First(&rfq, "id = ?", rfqID)
	if rfq.Status == entity.RFQStatusCompleted {
		t.Error("RFQ must not complete on a partial commit")
	}

	// Clear the fault; the retry reuses vendor X's order by creation key
	if err := db.Exec("ALTER TABLE purchase_orders DROP CONSTRAINT deny_vendor_y").Error; err != nil {
		t.Fatalf("Failed to drop fault constraint: %v", err)
	}

	w = testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, token)
	if w.Code != 200 {
		t.Fatalf("Retry finalize failed: %d %s", w.Code, w.Body.String())
	}

	var poXAgain entity.PurchaseOrder
	db.First(&poXAgain, "creation_key = ?", replID+":vendor-x")
	if poXAgain.ID != poX.ID {
		t.Errorf("Retry created a new vendor X order: %s vs %s", poXAgain.ID, poX.ID)
	}
	var count int64
	db.Model(&entity.PurchaseOrder{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected exactly 2 orders after retry, got %d", count)
	}

	db.First(&repl, "id = ?", replID)
	if repl.Status != entity.ReplenishmentStatusFinalized {
		t.Errorf("Expected FINALIZED after retry, got %s", repl.Status)
	}
	db.First(&rfq, "id = ?", rfqID)
	if rfq.Status != entity.RFQStatusCompleted {
		t.Errorf("Expected rfq COMPLETED after retry, got %s", rfq.Status)
	}
}

func TestQuoteImmutableOnceReferenced(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, lineIDs := quotedRFQ(t, db, r, token)

	createDraft(t, r, token, map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "best_availability",
	})

	// Vendor X's quotes now back draft lines; a correction must be refused
	w := testutil.DoRequest(r, "POST", "/api/v1/rfqs/"+rfqID+"/quotes", map[string]interface{}{
		"vendor_id": "vendor-x",
		"quotes": []map[string]interface{}{
			{"rfq_line_id": lineIDs[1], "price_each": "9.99"},
		},
	}, token)
	if w.Code != 409 {
		t.Fatalf("Expected 409 correcting a referenced quote, got %d: %s", w.Code, w.Body.String())
	}

	var quote entity.VendorQuote
	db.First(&quote, "rfq_line_id = ? AND vendor_id = ?", lineIDs[1], "vendor-x")
	if !quote.PriceEach.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Referenced quote price changed to %s", quote.PriceEach)
	}
}

func TestQuoteCorrectionBeforeReference(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, lineIDs := quotedRFQ(t, db, r, token)

	w := testutil.DoRequest(r, "POST", "/api/v1/rfqs/"+rfqID+"/quotes", map[string]interface{}{
		"vendor_id": "vendor-x",
		"quotes": []map[string]interface{}{
			{"rfq_line_id": lineIDs[1], "price_each": "1.75", "qty_available": "300"},
		},
	}, token)
	if w.Code != 201 {
		t.Fatalf("Quote correction failed: %d %s", w.Code, w.Body.String())
	}

	var quote entity.VendorQuote
	db.First(&quote, "rfq_line_id = ? AND vendor_id = ?", lineIDs[1], "vendor-x")
	if !quote.PriceEach.Equal(decimal.RequireFromString("1.75")) {
		t.Errorf("Expected corrected price 1.75, got %s", quote.PriceEach)
	}

	// Still a single quote row per vendor and line
	var count int64
	db.Model(&entity.VendorQuote{}).Where("rfq_line_id = ? AND vendor_id = ?", lineIDs[1], "vendor-x").Count(&count)
	if count != 1 {
		t.Errorf("Correction created a duplicate quote row: %d", count)
	}
}

func TestPurchaseOrderListAfterFinalize(t *testing.T) {
	db, r := setupProcureTest(t)
	token := testutil.DefaultTestToken()
	rfqID, _ := quotedRFQ(t, db, r, token)

	replID := createDraft(t, r, token, map[string]interface{}{
		"rfq_id":   rfqID,
		"strategy": "lowest_cost",
	})
	testutil.DoRequest(r, "POST", "/api/v1/replenishments/"+replID+"/finalize", nil, token)

	w := testutil.DoRequest(r, "GET", "/api/v1/purchase-orders", nil, token)
	if w.Code != 200 {
		t.Fatalf("List orders failed: %d %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("Expected 2 orders listed, got %d", len(items))
	}
}
