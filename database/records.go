package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/uniassist/uniassist/helper"
	"github.com/uniassist/uniassist/model"
	loadSql "github.com/uniassist/uniassist/sql"
)

// RecordsDBHandlerFunctions defines the interface for vector index operations.
type RecordsDBHandlerFunctions interface {
	UpsertRecords(documentID int, chunks []*model.Chunk, embeddings [][]float32) ([]*model.IndexedRecord, error)
	SelectRecordsBySimilarity(embedding []float32, limit int, filter model.Filter) ([]*model.IndexedRecord, error)
	CountRecords() (int64, error)
	DeleteRecordsByDocument(documentID int) error
}

// RecordsDBHandler handles the vector index: chunk contents, embeddings and
// metadata, queried by cosine similarity.
type RecordsDBHandler struct {
	db           *helper.Database
	embeddingDim int
}

// NewRecordsDBHandler creates a new records database handler.
// It loads the record-related SQL functions and creates the table with the
// given embedding dimension. The dimension is fixed for the lifetime of the
// table; mixing embedding configurations is a fatal misconfiguration.
// If force is true, it will reload the SQL functions even if they already exist.
func NewRecordsDBHandler(db *helper.Database, embeddingDim int, force bool) (*RecordsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	recordsDbHandler := &RecordsDBHandler{
		db:           db,
		embeddingDim: embeddingDim,
	}

	err := loadSql.LoadRecordsSql(recordsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load records sql", err)
	}

	err = recordsDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized RecordsDBHandler")

	return recordsDbHandler, nil
}

// CreateTable creates the 'records' table in the database.
// If the table already exists, it does not create it again.
// It also creates the metadata and vector indexes.
func (h *RecordsDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_records($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing records table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table records")

	return nil
}

// EmbeddingDim returns the dimension the index was created with.
func (h *RecordsDBHandler) EmbeddingDim() int {
	return h.embeddingDim
}

// UpsertRecords stores one ingestion batch of chunks with their embeddings.
// Chunks and embeddings must be parallel slices; a dimension mismatch against
// the index configuration is an error for the whole batch. The batch runs in
// a single transaction, so a concurrent query sees either none or all of it.
func (h *RecordsDBHandler) UpsertRecords(documentID int, chunks []*model.Chunk, embeddings [][]float32) ([]*model.IndexedRecord, error) {
	if len(chunks) != len(embeddings) {
		return nil, helper.NewError("upsert records", fmt.Errorf("got %d chunks but %d embeddings", len(chunks), len(embeddings)))
	}

	for i, embedding := range embeddings {
		if len(embedding) != h.embeddingDim {
			return nil, helper.NewError("upsert records", fmt.Errorf("embedding %d has dimension %d, index expects %d", i, len(embedding), h.embeddingDim))
		}
	}

	tx, err := h.db.Instance.Begin()
	if err != nil {
		return nil, helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	records := make([]*model.IndexedRecord, 0, len(chunks))
	for i, chunk := range chunks {
		row := tx.QueryRow(
			`SELECT * FROM upsert_record($1, $2, $3, $4, $5)`,
			chunk.RID,
			documentID,
			chunk.Text,
			pgvector.NewVector(embeddings[i]),
			chunk.EnvelopeMetadata(),
		)

		record := &model.IndexedRecord{}
		var embeddingVector pgvector.Vector
		err := row.Scan(
			&record.RID,
			&record.DocumentID,
			&record.Content,
			&embeddingVector,
			&record.Metadata,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("upsert record %d", i), err)
		}
		record.Embedding = embeddingVector.Slice()

		records = append(records, record)
	}

	err = tx.Commit()
	if err != nil {
		return nil, helper.NewError("commit transaction", err)
	}

	return records, nil
}

// SelectRecordsBySimilarity performs nearest-neighbor search by cosine
// distance, returning rows with similarity = 1 - distance in descending
// order. A nil or empty filter returns unfiltered neighbors; otherwise the
// metadata must contain every filter entry.
func (h *RecordsDBHandler) SelectRecordsBySimilarity(embedding []float32, limit int, filter model.Filter) ([]*model.IndexedRecord, error) {
	if len(embedding) != h.embeddingDim {
		return nil, helper.NewError("similarity search", fmt.Errorf("query embedding has dimension %d, index expects %d", len(embedding), h.embeddingDim))
	}

	var filterParam interface{}
	if len(filter) > 0 {
		filterJSON, err := model.Metadata(filter).Marshal()
		if err != nil {
			return nil, helper.NewError("marshal filter", err)
		}
		filterParam = filterJSON
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_records_by_similarity($1, $2, $3)`,
		pgvector.NewVector(embedding),
		limit,
		filterParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.IndexedRecord
	for rows.Next() {
		record := &model.IndexedRecord{}
		err := rows.Scan(
			&record.RID,
			&record.DocumentID,
			&record.Content,
			&record.Metadata,
			&record.CreatedAt,
			&record.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// CountRecords returns the number of indexed records.
func (h *RecordsDBHandler) CountRecords() (int64, error) {
	var count int64
	err := h.db.Instance.QueryRow(`SELECT count_records()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

// DeleteRecordsByDocument deletes all records of a document.
func (h *RecordsDBHandler) DeleteRecordsByDocument(documentID int) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_records_by_document($1)`,
		documentID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
