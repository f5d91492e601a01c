package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"import-service/internal/clients"
	"import-service/internal/directory"
	"import-service/internal/importer"
	"import-service/internal/models"
)

type MockBatchConverter struct {
	mock.Mock
}

func (m *MockBatchConverter) ConvertBatch(ctx context.Context, auth clients.AuthContext, records []importer.Record) ([]importer.Record, error) {
	args := m.Called(ctx, auth, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]importer.Record), args.Error(1)
}

type MockProductCreator struct {
	mock.Mock
}

func (m *MockProductCreator) BulkCreateProducts(ctx context.Context, auth clients.AuthContext, records []map[string]interface{}) (*clients.BulkCreateResult, error) {
	args := m.Called(ctx, auth, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.BulkCreateResult), args.Error(1)
}

type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) CreateJob(job *models.ImportJob) error {
	args := m.Called(job)
	return args.Error(0)
}

func (m *MockJobStore) ListJobs(tenantID string, entity *models.ImportEntity, page, limit int) ([]models.ImportJob, int64, error) {
	args := m.Called(tenantID, entity, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.ImportJob), args.Get(1).(int64), args.Error(2)
}

func setupTestRouter(h *ImportHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("tenant_id", "tenant-1")
		c.Set("auth_token", "token")
		c.Set("user_id", "user-1")
		c.Next()
	})
	r.GET("/api/v1/imports", h.ListImportJobs)
	r.POST("/api/v1/imports/products", h.ImportProducts)
	r.POST("/api/v1/imports/products/bulk", h.ImportProductsBulk)
	r.GET("/api/v1/imports/products/template", h.GetProductImportTemplate)
	r.POST("/api/v1/imports/purchase-orders", h.ImportPurchaseOrders)
	return r
}

func newMockedHandler() (*ImportHandler, *MockBatchConverter, *MockProductCreator, *MockJobStore) {
	converter := new(MockBatchConverter)
	products := new(MockProductCreator)
	repo := new(MockJobStore)
	h := NewImportHandler(converter, products, repo, nil, nil)
	return h, converter, products, repo
}

func csvUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

const productCSV = "name,category,supplier,supermarket,quantity,price\n" +
	"Whole Milk 1L,Dairy,Acme,Main Store,10,5.50\n"

func stubCreateJob(repo *MockJobStore) {
	repo.On("CreateJob", mock.AnythingOfType("*models.ImportJob")).Run(func(args mock.Arguments) {
		job := args.Get(0).(*models.ImportJob)
		job.ID = uuid.New()
	}).Return(nil)
}

func TestImportProductsCSVHappyPath(t *testing.T) {
	h, converter, products, repo := newMockedHandler()
	router := setupTestRouter(h)

	converted := []importer.Record{
		{"name": "Whole Milk 1L", "category": 1, "supplier": 2, "supermarket": "sm-1", "quantity": 10, "price": 5.5},
	}
	converter.On("ConvertBatch", mock.Anything, mock.Anything, mock.Anything).Return(converted, nil)
	products.On("BulkCreateProducts", mock.Anything, mock.Anything, mock.Anything).
		Return(&clients.BulkCreateResult{Success: true, CreatedIDs: []string{"prod-1"}}, nil)
	stubCreateJob(repo)

	body, contentType := csvUpload(t, "products.csv", productCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/products", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalRows)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Equal(t, []string{"prod-1"}, result.CreatedIDs)
	assert.NotEmpty(t, result.JobID)

	converter.AssertExpectations(t)
	products.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestImportProductsConversionErrorsMapToFileRows(t *testing.T) {
	h, converter, products, repo := newMockedHandler()
	router := setupTestRouter(h)

	// Batch rows are 1-based over the records; file rows start at 2 because
	// of the header line. Batch row 2 is file row 3.
	batchErr := &importer.BatchError{Rows: []importer.RowError{
		{Row: 2, Message: "supplier 'Nonexistent' not found. Valid suppliers: Acme"},
	}}
	converter.On("ConvertBatch", mock.Anything, mock.Anything, mock.Anything).Return(nil, batchErr)
	stubCreateJob(repo)

	csv := "name,category,supplier,supermarket,quantity,price\n" +
		"a,Dairy,Acme,Main Store,1,1\n" +
		"b,Dairy,Nonexistent,Main Store,1,1\n" +
		"c,Dairy,Acme,Main Store,1,1\n"
	body, contentType := csvUpload(t, "products.csv", csv, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/products", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "ROW_CONVERSION", result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Message, "Nonexistent")

	products.AssertNotCalled(t, "BulkCreateProducts")

	// The failed run is still recorded
	repo.AssertCalled(t, "CreateJob", mock.MatchedBy(func(job *models.ImportJob) bool {
		return job.Status == models.ImportJobStatusFailed && job.ErrorText != nil
	}))
}

func TestImportProductsDirectoryUnavailable(t *testing.T) {
	h, converter, products, repo := newMockedHandler()
	router := setupTestRouter(h)

	refreshErr := &directory.RefreshFailedError{Resource: "categories", Err: errors.New("connection refused")}
	converter.On("ConvertBatch", mock.Anything, mock.Anything, mock.Anything).Return(nil, refreshErr)

	body, contentType := csvUpload(t, "products.csv", productCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/products", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DIRECTORY_UNAVAILABLE", resp.Error.Code)

	products.AssertNotCalled(t, "BulkCreateProducts")
	repo.AssertNotCalled(t, "CreateJob")
}

func TestImportProductsValidateOnly(t *testing.T) {
	h, converter, products, repo := newMockedHandler()
	router := setupTestRouter(h)

	converted := []importer.Record{
		{"name": "Whole Milk 1L", "category": 1, "supplier": 2, "supermarket": "sm-1"},
	}
	converter.On("ConvertBatch", mock.Anything, mock.Anything, mock.Anything).Return(converted, nil)
	stubCreateJob(repo)

	body, contentType := csvUpload(t, "products.csv", productCSV, map[string]string{"validateOnly": "true"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/products", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Empty(t, result.CreatedIDs)

	products.AssertNotCalled(t, "BulkCreateProducts")
	repo.AssertCalled(t, "CreateJob", mock.MatchedBy(func(job *models.ImportJob) bool {
		return job.Status == models.ImportJobStatusValidated
	}))
}

func TestImportProductsMissingFile(t *testing.T) {
	h, _, _, _ := newMockedHandler()
	router := setupTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "FILE_REQUIRED", resp.Error.Code)
}

func TestImportProductsMissingRequiredColumn(t *testing.T) {
	h, converter, _, repo := newMockedHandler()
	router := setupTestRouter(h)

	converter.On("ConvertBatch", mock.Anything, mock.Anything, mock.Anything).Return([]importer.Record{}, nil)
	stubCreateJob(repo)

	// Second row has no supplier
	csv := "name,category,supplier,supermarket,quantity,price\n" +
		"a,Dairy,Acme,Main Store,1,1\n" +
		"b,Dairy,,Main Store,1,1\n"
	body, contentType := csvUpload(t, "products.csv", csv, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/products", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "REQUIRED_FIELD", result.Errors[0].Code)
	assert.Equal(t, "supplier", result.Errors[0].Column)
}

func TestImportProductsBulk(t *testing.T) {
	h, converter, products, repo := newMockedHandler()
	router := setupTestRouter(h)

	converted := []importer.Record{
		{"name": "Juice", "category": 3, "supplier": 2, "supermarket": "sm-1"},
	}
	converter.On("ConvertBatch", mock.Anything, mock.Anything, mock.Anything).Return(converted, nil)
	products.On("BulkCreateProducts", mock.Anything, mock.Anything, mock.Anything).
		Return(&clients.BulkCreateResult{Success: true, CreatedIDs: []string{"prod-7"}}, nil)
	stubCreateJob(repo)

	payload := `{"products":[{"name":"Juice","category":"Beverages","supplier":"Acme","supermarket":"Main Store"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/products/bulk", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, []string{"prod-7"}, result.CreatedIDs)
}

func TestImportProductsBulkEmptyPayload(t *testing.T) {
	h, _, _, _ := newMockedHandler()
	router := setupTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/products/bulk", bytes.NewBufferString(`{"products":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_PAYLOAD", resp.Error.Code)
}

func TestImportPurchaseOrdersReturnsLines(t *testing.T) {
	h, converter, _, repo := newMockedHandler()
	router := setupTestRouter(h)

	converted := []importer.Record{
		{"product_name": "Whole Milk 1L", "supplier": 2, "supermarket": "sm-1", "quantity": 50, "unit_price": 4.25},
	}
	converter.On("ConvertBatch", mock.Anything, mock.Anything, mock.Anything).Return(converted, nil)
	stubCreateJob(repo)

	csv := "product_name,supplier,supermarket,quantity,unit_price\n" +
		"Whole Milk 1L,Acme,Main Store,50,4.25\n"
	body, contentType := csvUpload(t, "orders.csv", csv, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/purchase-orders", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Result  models.ImportResult      `json:"result"`
		Lines   []map[string]interface{} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Result.SuccessCount)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Whole Milk 1L", resp.Lines[0]["product_name"])
}

func TestImportPurchaseOrdersRejectsNonCSV(t *testing.T) {
	h, _, _, _ := newMockedHandler()
	router := setupTestRouter(h)

	body, contentType := csvUpload(t, "orders.xlsx", "irrelevant", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/purchase-orders", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_FORMAT", resp.Error.Code)
}

func TestListImportJobs(t *testing.T) {
	h, _, _, repo := newMockedHandler()
	router := setupTestRouter(h)

	jobs := []models.ImportJob{
		{ID: uuid.New(), TenantID: "tenant-1", Entity: models.ImportEntityProducts, Status: models.ImportJobStatusCompleted},
	}
	repo.On("ListJobs", "tenant-1", (*models.ImportEntity)(nil), 1, 20).Return(jobs, int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ImportJobListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, jobs[0].ID, resp.Data[0].ID)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(1), resp.Pagination.TotalItems)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
}

func TestGetProductImportTemplateJSON(t *testing.T) {
	h, _, _, _ := newMockedHandler()
	router := setupTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/products/template", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool                  `json:"success"`
		Template models.ImportTemplate `json:"template"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "products", resp.Template.Entity)
	assert.NotEmpty(t, resp.Template.Columns)
}

func TestGetProductImportTemplateCSV(t *testing.T) {
	h, _, _, _ := newMockedHandler()
	router := setupTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/products/template?format=csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "name,category,supplier,supermarket")
}

func TestBuildRecordsCoercesNumbers(t *testing.T) {
	rows := []map[string]string{
		{"_row": "2", "name": "a", "category": "Dairy", "supplier": "Acme", "supermarket": "Main Store", "quantity": "10", "price": "5.50"},
	}

	records, fileRows, errs := buildRecords(rows, ProductImportTemplate(), []string{"quantity"}, []string{"price", "cost_price"})
	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, []int{2}, fileRows)
	assert.Equal(t, 10, records[0]["quantity"])
	assert.Equal(t, 5.5, records[0]["price"])
	assert.NotContains(t, records[0], "_row")
}

func TestBuildRecordsAcceptsNameVariant(t *testing.T) {
	rows := []map[string]string{
		{"_row": "2", "name": "a", "category_name": "Dairy", "supplier": "Acme", "supermarket": "Main Store", "quantity": "1", "price": "1"},
	}

	records, _, errs := buildRecords(rows, ProductImportTemplate(), []string{"quantity"}, []string{"price"})
	assert.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, "Dairy", records[0]["category_name"])
}

func TestBuildRecordsReportsMissingRequired(t *testing.T) {
	rows := []map[string]string{
		{"_row": "2", "name": "a", "category": "Dairy", "supplier": "Acme", "supermarket": "Main Store", "quantity": "1", "price": "1"},
		{"_row": "3", "name": "b", "category": "", "supplier": "Acme", "supermarket": "Main Store", "quantity": "1", "price": "1"},
	}

	records, fileRows, errs := buildRecords(rows, ProductImportTemplate(), []string{"quantity"}, []string{"price"})
	require.Len(t, records, 1)
	assert.Equal(t, []int{2}, fileRows)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Row)
	assert.Equal(t, "category", errs[0].Column)
	assert.Equal(t, "REQUIRED_FIELD", errs[0].Code)
}
