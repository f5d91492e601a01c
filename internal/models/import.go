package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSON type for PostgreSQL JSONB
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
	ImportFormatJSON ImportFormat = "json"
)

// ImportEntity is what kind of records an import run carries
type ImportEntity string

const (
	ImportEntityProducts       ImportEntity = "products"
	ImportEntityPurchaseOrders ImportEntity = "purchase_orders"
)

// ImportJobStatus represents the outcome of an import run
type ImportJobStatus string

const (
	ImportJobStatusCompleted ImportJobStatus = "COMPLETED"
	ImportJobStatusFailed    ImportJobStatus = "FAILED"
	ImportJobStatusValidated ImportJobStatus = "VALIDATED"
)

// ImportJob records one import run per tenant for auditing
type ImportJob struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string          `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	Entity       ImportEntity    `json:"entity" gorm:"type:varchar(50);not null"`
	Format       ImportFormat    `json:"format" gorm:"type:varchar(10);not null"`
	FileName     *string         `json:"fileName,omitempty" gorm:"type:varchar(255)"`
	Status       ImportJobStatus `json:"status" gorm:"type:varchar(20);not null"`
	TotalRows    int             `json:"totalRows"`
	SuccessCount int             `json:"successCount"`
	FailedCount  int             `json:"failedCount"`
	ErrorText    *string         `json:"errorText,omitempty" gorm:"type:text"`
	Metadata     *JSON           `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy *string   `json:"createdBy,omitempty"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity     string                 `json:"entity"`
	Version    string                 `json:"version"`
	Columns    []ImportTemplateColumn `json:"columns"`
	SampleData []map[string]string    `json:"sampleData,omitempty"`
}

// ImportRowError represents an error for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Success      bool             `json:"success"`
	JobID        string           `json:"jobId,omitempty"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	FailedCount  int              `json:"failedCount"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	CreatedIDs   []string         `json:"createdIds,omitempty"`
	ProcessingMs int64            `json:"processingMs,omitempty"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// ImportJobListResponse is the paginated listing of a tenant's import runs
type ImportJobListResponse struct {
	Success    bool            `json:"success"`
	Data       []ImportJob     `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}
