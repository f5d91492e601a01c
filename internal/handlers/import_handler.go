package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"import-service/internal/clients"
	"import-service/internal/directory"
	"import-service/internal/events"
	"import-service/internal/importer"
	"import-service/internal/middleware"
	"import-service/internal/models"
)

// BatchConverter converts name-bearing records into identifier-bearing ones
type BatchConverter interface {
	ConvertBatch(ctx context.Context, auth clients.AuthContext, records []importer.Record) ([]importer.Record, error)
}

// ProductCreator hands converted records to the products backend
type ProductCreator interface {
	BulkCreateProducts(ctx context.Context, auth clients.AuthContext, records []map[string]interface{}) (*clients.BulkCreateResult, error)
}

// JobStore records import runs
type JobStore interface {
	CreateJob(job *models.ImportJob) error
	ListJobs(tenantID string, entity *models.ImportEntity, page, limit int) ([]models.ImportJob, int64, error)
}

type ImportHandler struct {
	converter BatchConverter
	products  ProductCreator
	repo      JobStore
	publisher *events.ImportEventPublisher
	logger    *logrus.Entry
}

func NewImportHandler(converter BatchConverter, products ProductCreator, repo JobStore, publisher *events.ImportEventPublisher, logger *logrus.Logger) *ImportHandler {
	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ImportHandler{
		converter: converter,
		products:  products,
		repo:      repo,
		publisher: publisher,
		logger:    log.WithField("component", "import-handler"),
	}
}

// ProductImportTemplate returns the template for product imports
func ProductImportTemplate() models.ImportTemplate {
	return models.ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: []models.ImportTemplateColumn{
			{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Whole Milk 1L"},
			{Name: "category", Description: "Category name (resolved against the directory)", Required: true, Type: "string", Example: "Dairy"},
			{Name: "supplier", Description: "Supplier name (must already exist)", Required: true, Type: "string", Example: "Acme Foods"},
			{Name: "supermarket", Description: "Supermarket name (auto-created if missing)", Required: true, Type: "string", Example: "Main Store"},
			{Name: "quantity", Description: "Stock quantity", Required: true, Type: "number", Example: "10"},
			{Name: "price", Description: "Selling price", Required: true, Type: "number", Example: "5.50"},
			{Name: "cost_price", Description: "Cost price", Required: false, Type: "number", Example: "4.10"},
			{Name: "expiry_date", Description: "Expiry date (YYYY-MM-DD)", Required: false, Type: "string", Example: "2027-01-31"},
			{Name: "barcode", Description: "EAN/UPC barcode", Required: false, Type: "string", Example: "5901234123457"},
			{Name: "description", Description: "Product description", Required: false, Type: "string", Example: "Fresh whole milk"},
		},
		SampleData: []map[string]string{
			{
				"name":        "Whole Milk 1L",
				"category":    "Dairy",
				"supplier":    "Acme Foods",
				"supermarket": "Main Store",
				"quantity":    "10",
				"price":       "5.50",
				"cost_price":  "4.10",
				"expiry_date": "2027-01-31",
				"barcode":     "5901234123457",
				"description": "Fresh whole milk",
			},
		},
	}
}

// PurchaseOrderImportTemplate returns the template for purchase-order lines
func PurchaseOrderImportTemplate() models.ImportTemplate {
	return models.ImportTemplate{
		Entity:  "purchase_orders",
		Version: "1.0",
		Columns: []models.ImportTemplateColumn{
			{Name: "product_name", Description: "Product name", Required: true, Type: "string", Example: "Whole Milk 1L"},
			{Name: "supplier", Description: "Supplier name (must already exist)", Required: true, Type: "string", Example: "Acme Foods"},
			{Name: "supermarket", Description: "Receiving supermarket name", Required: true, Type: "string", Example: "Main Store"},
			{Name: "quantity", Description: "Order quantity", Required: true, Type: "number", Example: "50"},
			{Name: "unit_price", Description: "Agreed unit price", Required: true, Type: "number", Example: "4.25"},
			{Name: "expected_date", Description: "Expected delivery date (YYYY-MM-DD)", Required: false, Type: "string", Example: "2026-09-15"},
		},
	}
}

// GetProductImportTemplate returns the product import template
// GET /api/v1/imports/products/template
func (h *ImportHandler) GetProductImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	template := ProductImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template, "products")
	case "xlsx":
		h.generateXLSXTemplate(c, template, "Products")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
	}
}

// GetPurchaseOrderImportTemplate returns the purchase-order import template
// GET /api/v1/imports/purchase-orders/template
func (h *ImportHandler) GetPurchaseOrderImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	template := PurchaseOrderImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template, "purchase_orders")
	case "xlsx":
		h.generateXLSXTemplate(c, template, "PurchaseOrders")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
	}
}

func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template models.ImportTemplate, entity string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_template.csv", entity))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)

	for _, sample := range template.SampleData {
		row := make([]string, len(template.Columns))
		for i, col := range template.Columns {
			row[i] = sample[col.Name]
		}
		writer.Write(row)
	}
}

func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template models.ImportTemplate, sheetName string) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	for rowIdx, sample := range template.SampleData {
		for colIdx, col := range template.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, sample[col.Name])
		}
	}

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_template.xlsx", strings.ToLower(sheetName)))

	f.Write(c.Writer)
}

// ImportProducts imports products from a CSV or Excel file
// POST /api/v1/imports/products
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	auth := middleware.GetAuthContext(c)
	startTime := time.Now()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "FILE_REQUIRED", Message: "Please upload a CSV or Excel file"},
		})
		return
	}
	defer file.Close()

	validateOnly := c.DefaultPostForm("validateOnly", "false") == "true"

	rows, format, parseErr := h.parseFile(file, header.Filename)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "PARSE_ERROR", Message: parseErr.Error()},
		})
		return
	}

	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "EMPTY_FILE", Message: "The file contains no data rows"},
		})
		return
	}

	records, fileRows, requiredErrs := buildRecords(rows, ProductImportTemplate(),
		[]string{"quantity"}, []string{"price", "cost_price"})

	result := h.runProductImport(c, auth, records, fileRows, requiredErrs, len(rows), validateOnly)
	if result == nil {
		return // error response already written
	}
	result.ProcessingMs = time.Since(startTime).Milliseconds()

	h.recordJob(tenantID, auth.UserID, models.ImportEntityProducts, format, &header.Filename, validateOnly, result)
	c.JSON(http.StatusOK, result)
}

// BulkImportProductsRequest is the typed JSON variant of a product import
type BulkImportProductsRequest struct {
	Products     []map[string]interface{} `json:"products" binding:"required,min=1"`
	ValidateOnly bool                     `json:"validateOnly,omitempty"`
}

// ImportProductsBulk imports products from a typed JSON payload
// POST /api/v1/imports/products/bulk
func (h *ImportHandler) ImportProductsBulk(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	auth := middleware.GetAuthContext(c)
	startTime := time.Now()

	var req BulkImportProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_PAYLOAD", Message: err.Error()},
		})
		return
	}

	records := make([]importer.Record, len(req.Products))
	fileRows := make([]int, len(req.Products))
	for i, product := range req.Products {
		records[i] = importer.Record(product)
		fileRows[i] = i + 1
	}

	result := h.runProductImport(c, auth, records, fileRows, nil, len(records), req.ValidateOnly)
	if result == nil {
		return
	}
	result.ProcessingMs = time.Since(startTime).Milliseconds()

	h.recordJob(tenantID, auth.UserID, models.ImportEntityProducts, models.ImportFormatJSON, nil, req.ValidateOnly, result)
	c.JSON(http.StatusOK, result)
}

// ImportPurchaseOrders converts purchase-order lines from a CSV file. The
// converted lines are returned to the caller, which owns purchase-order
// creation.
// POST /api/v1/imports/purchase-orders
func (h *ImportHandler) ImportPurchaseOrders(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	auth := middleware.GetAuthContext(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "FILE_REQUIRED", Message: "Please upload a CSV file"},
		})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_FORMAT", Message: "Only CSV files are supported for purchase orders"},
		})
		return
	}

	rows, parseErr := h.parseCSV(file)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "PARSE_ERROR", Message: parseErr.Error()},
		})
		return
	}

	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "EMPTY_FILE", Message: "The file contains no data rows"},
		})
		return
	}

	records, fileRows, requiredErrs := buildRecords(rows, PurchaseOrderImportTemplate(),
		[]string{"quantity"}, []string{"unit_price"})

	result := &models.ImportResult{
		TotalRows: len(rows),
		Errors:    requiredErrs,
	}

	converted, convErr := h.converter.ConvertBatch(c.Request.Context(), auth, records)
	if convErr != nil {
		if h.respondDirectoryFailure(c, convErr) {
			return
		}
		var batchErr *importer.BatchError
		if errors.As(convErr, &batchErr) {
			result.Errors = append(result.Errors, conversionErrors(batchErr, fileRows)...)
		} else {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error:   models.Error{Code: "CONVERSION_FAILED", Message: convErr.Error()},
			})
			return
		}
	}

	result.SuccessCount = len(converted)
	result.FailedCount = result.TotalRows - len(converted)
	result.Success = len(result.Errors) == 0

	h.recordJob(tenantID, auth.UserID, models.ImportEntityPurchaseOrders, models.ImportFormatCSV, &header.Filename, false, result)

	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"result":  result,
		"lines":   converted,
	})
}

// ListImportJobs lists a tenant's import runs
// GET /api/v1/imports
func (h *ImportHandler) ListImportJobs(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit > 100 {
		limit = 100
	}

	var entity *models.ImportEntity
	if e := c.Query("entity"); e != "" {
		ent := models.ImportEntity(e)
		entity = &ent
	}

	jobs, total, err := h.repo.ListJobs(tenantID, entity, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "LIST_FAILED", Message: err.Error()},
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, models.ImportJobListResponse{
		Success: true,
		Data:    jobs,
		Pagination: &models.PaginationMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	})
}

// runProductImport converts the records and, unless validateOnly is set,
// hands the converted batch to the products backend. Returns nil when an
// error response has already been written.
func (h *ImportHandler) runProductImport(c *gin.Context, auth clients.AuthContext, records []importer.Record, fileRows []int, requiredErrs []models.ImportRowError, totalRows int, validateOnly bool) *models.ImportResult {
	ctx := c.Request.Context()
	result := &models.ImportResult{
		TotalRows:  totalRows,
		Errors:     requiredErrs,
		CreatedIDs: make([]string, 0),
	}

	converted, convErr := h.converter.ConvertBatch(ctx, auth, records)
	if convErr != nil {
		if h.respondDirectoryFailure(c, convErr) {
			return nil
		}

		var batchErr *importer.BatchError
		if !errors.As(convErr, &batchErr) {
			result.Success = false
			result.FailedCount = totalRows
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:     0,
				Code:    "CONVERSION_FAILED",
				Message: convErr.Error(),
			})
			return result
		}

		result.Errors = append(result.Errors, conversionErrors(batchErr, fileRows)...)
		result.Success = false
		result.FailedCount = totalRows
		return result
	}

	if validateOnly {
		result.Success = len(result.Errors) == 0
		result.SuccessCount = len(converted)
		result.FailedCount = totalRows - len(converted)
		return result
	}

	if len(converted) == 0 {
		result.Success = false
		result.FailedCount = totalRows
		return result
	}

	bulkResult, err := h.products.BulkCreateProducts(ctx, auth, recordMaps(converted))
	if err != nil {
		result.Success = false
		result.FailedCount = totalRows
		result.Errors = append(result.Errors, models.ImportRowError{
			Row:     0,
			Code:    "BULK_CREATE_FAILED",
			Message: err.Error(),
		})
		return result
	}

	result.CreatedIDs = append(result.CreatedIDs, bulkResult.CreatedIDs...)
	for _, bulkErr := range bulkResult.Errors {
		rowNum := 0
		if bulkErr.Index >= 0 && bulkErr.Index < len(fileRows) {
			rowNum = fileRows[bulkErr.Index]
		}
		result.Errors = append(result.Errors, models.ImportRowError{
			Row:     rowNum,
			Code:    bulkErr.Code,
			Message: bulkErr.Message,
		})
	}

	result.SuccessCount = len(bulkResult.CreatedIDs)
	result.FailedCount = totalRows - result.SuccessCount
	result.Success = result.SuccessCount > 0 && len(result.Errors) == 0

	return result
}

// respondDirectoryFailure writes a 502 when the directory refresh failed;
// nothing can be resolved without directory data.
func (h *ImportHandler) respondDirectoryFailure(c *gin.Context, err error) bool {
	var refreshErr *directory.RefreshFailedError
	if !errors.As(err, &refreshErr) {
		return false
	}
	c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "DIRECTORY_UNAVAILABLE", Message: refreshErr.Error()},
	})
	return true
}

func (h *ImportHandler) recordJob(tenantID, userID string, entity models.ImportEntity, format models.ImportFormat, fileName *string, validateOnly bool, result *models.ImportResult) {
	status := models.ImportJobStatusCompleted
	if validateOnly {
		status = models.ImportJobStatusValidated
	} else if !result.Success {
		status = models.ImportJobStatusFailed
	}

	job := &models.ImportJob{
		TenantID:     tenantID,
		Entity:       entity,
		Format:       format,
		FileName:     fileName,
		Status:       status,
		TotalRows:    result.TotalRows,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	}
	if userID != "" {
		job.CreatedBy = &userID
	}
	if len(result.Errors) > 0 {
		lines := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			lines[i] = fmt.Sprintf("Row %d: %s", e.Row, e.Message)
		}
		text := strings.Join(lines, "\n")
		job.ErrorText = &text
	}

	if err := h.repo.CreateJob(job); err != nil {
		h.logger.WithError(err).Error("Failed to record import job")
		return
	}
	result.JobID = job.ID.String()

	if h.publisher != nil && !validateOnly {
		if err := h.publisher.PublishImportCompleted(tenantID, job.ID.String(), string(entity), result.TotalRows, result.SuccessCount, result.FailedCount); err != nil {
			h.logger.WithError(err).Warn("Failed to publish import.completed event")
		}
	}
}

func (h *ImportHandler) parseFile(file io.Reader, filename string) ([]map[string]string, models.ImportFormat, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		rows, err := h.parseCSV(file)
		return rows, models.ImportFormatCSV, err
	} else if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		rows, err := h.parseXLSX(file)
		return rows, models.ImportFormatXLSX, err
	}
	return nil, "", fmt.Errorf("only CSV and XLSX files are supported")
}

func (h *ImportHandler) parseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}

	var rows []map[string]string
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}

		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum + 1)
		rows = append(rows, row)
		lineNum++
	}

	return rows, nil
}

func (h *ImportHandler) parseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheetName := sheets[0]
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headers := excelRows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}

	var rows []map[string]string
	for rowIdx, excelRow := range excelRows[1:] {
		row := make(map[string]string)
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(rowIdx + 2)
		rows = append(rows, row)
	}

	return rows, nil
}

// buildRecords turns parsed file rows into import records. Rows missing a
// required column are reported and excluded from conversion; intKeys and
// floatKeys name the columns coerced to numbers. Returns the records, the
// file row number per record, and the required-field errors.
func buildRecords(rows []map[string]string, template models.ImportTemplate, intKeys, floatKeys []string) ([]importer.Record, []int, []models.ImportRowError) {
	requiredCols := make(map[string]bool)
	for _, col := range template.Columns {
		if col.Required {
			requiredCols[col.Name] = true
		}
	}

	var (
		records  []importer.Record
		fileRows []int
		errs     []models.ImportRowError
	)

	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])

		missing := false
		for colName := range requiredCols {
			// The *_name variant satisfies a required name column
			if row[colName] == "" && row[colName+"_name"] == "" {
				errs = append(errs, models.ImportRowError{
					Row:     rowNum,
					Column:  colName,
					Code:    "REQUIRED_FIELD",
					Message: fmt.Sprintf("Required field '%s' is empty", colName),
				})
				missing = true
			}
		}
		if missing {
			continue
		}

		record := make(importer.Record, len(row))
		for key, value := range row {
			if key == "_row" || value == "" {
				continue
			}
			record[key] = value
		}
		for _, key := range intKeys {
			if raw, ok := record[key].(string); ok {
				if n, err := strconv.Atoi(raw); err == nil {
					record[key] = n
				}
			}
		}
		for _, key := range floatKeys {
			if raw, ok := record[key].(string); ok {
				if f, err := strconv.ParseFloat(raw, 64); err == nil {
					record[key] = f
				}
			}
		}

		records = append(records, record)
		fileRows = append(fileRows, rowNum)
	}

	return records, fileRows, errs
}

// conversionErrors maps batch row errors (1-based over the converted slice)
// back to file row numbers
func conversionErrors(batchErr *importer.BatchError, fileRows []int) []models.ImportRowError {
	errs := make([]models.ImportRowError, 0, len(batchErr.Rows))
	for _, rowErr := range batchErr.Rows {
		rowNum := rowErr.Row
		if rowErr.Row-1 >= 0 && rowErr.Row-1 < len(fileRows) {
			rowNum = fileRows[rowErr.Row-1]
		}
		errs = append(errs, models.ImportRowError{
			Row:     rowNum,
			Code:    "ROW_CONVERSION",
			Message: rowErr.Message,
		})
	}
	return errs
}

func recordMaps(records []importer.Record) []map[string]interface{} {
	out := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		out[i] = map[string]interface{}(rec)
	}
	return out
}
