package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/uniassist/uniassist/helper"
	"github.com/uniassist/uniassist/model"
	loadSql "github.com/uniassist/uniassist/sql"
)

// DocumentsDBHandlerFunctions defines the interface for document registry
// database operations.
type DocumentsDBHandlerFunctions interface {
	InsertDocument(doc *model.Document, pageCount int) (*model.DocumentRecord, error)
	SelectDocument(filename string) (*model.DocumentRecord, error)
	SelectAllDocuments() ([]*model.DocumentRecord, error)
	DeleteDocument(filename string) error
}

// DocumentsDBHandler handles document-related database operations
type DocumentsDBHandler struct {
	db *helper.Database
}

// NewDocumentsDBHandler creates a new documents database handler.
// It loads the document-related SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewDocumentsDBHandler(db *helper.Database, force bool) (*DocumentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	documentsDbHandler := &DocumentsDBHandler{
		db: db,
	}

	err := loadSql.LoadDocumentsSql(documentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load documents sql", err)
	}

	err = documentsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized DocumentsDBHandler")

	return documentsDbHandler, nil
}

// CreateTable creates the 'documents' table in the database.
// If the table already exists, it does not create it again.
func (h *DocumentsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_documents();`)
	if err != nil {
		log.Panicf("error initializing documents table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table documents")

	return nil
}

// InsertDocument upserts a document registry row keyed by filename.
func (h *DocumentsDBHandler) InsertDocument(doc *model.Document, pageCount int) (*model.DocumentRecord, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_document($1, $2, $3, $4, $5, $6)`,
		doc.Filename,
		string(doc.Type),
		doc.Course,
		doc.CourseCode,
		doc.WordCount,
		pageCount,
	)

	record := &model.DocumentRecord{}
	err := row.Scan(
		&record.ID,
		&record.RID,
		&record.Filename,
		&record.Type,
		&record.Course,
		&record.CourseCode,
		&record.WordCount,
		&record.PageCount,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// SelectDocument retrieves a document registry row by filename
func (h *DocumentsDBHandler) SelectDocument(filename string) (*model.DocumentRecord, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_document($1)`,
		filename,
	)

	record := &model.DocumentRecord{}
	err := row.Scan(
		&record.ID,
		&record.RID,
		&record.Filename,
		&record.Type,
		&record.Course,
		&record.CourseCode,
		&record.WordCount,
		&record.PageCount,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// SelectAllDocuments retrieves all registered documents ordered by filename
func (h *DocumentsDBHandler) SelectAllDocuments() ([]*model.DocumentRecord, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_documents()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var records []*model.DocumentRecord
	for rows.Next() {
		record := &model.DocumentRecord{}
		err := rows.Scan(
			&record.ID,
			&record.RID,
			&record.Filename,
			&record.Type,
			&record.Course,
			&record.CourseCode,
			&record.WordCount,
			&record.PageCount,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}

// DeleteDocument deletes a document registry row by filename. Records of the
// document are removed by the foreign key cascade.
func (h *DocumentsDBHandler) DeleteDocument(filename string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_document($1)`,
		filename,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
