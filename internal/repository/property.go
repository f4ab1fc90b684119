package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const defaultPropertyLimit = 6

var propertyColumns = []string{
	"id", "title", "slug", "property_type", "location", "price", "rooms", "bathrooms",
	"built_area", "total_area", "main_image", "description",
}

// availableProperty is the visibility rule shared by every property read.
const availableProperty = "active = true AND status = 'available'"

func columnList(prefix string) string {
	cols := make([]string, len(propertyColumns))
	for i, c := range propertyColumns {
		cols[i] = prefix + c
	}
	return strings.Join(cols, ", ")
}

// likePattern wraps s for a substring ILIKE match, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// buildPropertyQuery renders the filtered property search. Location and
// title are OR-ed when both are given.
func buildPropertyQuery(q model.PropertyQuery) (string, []interface{}) {
	whereClauses := []string{availableProperty}
	args := []interface{}{}
	argIndex := 1

	if q.PropertyType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("property_type = $%d", argIndex))
		args = append(args, string(q.PropertyType))
		argIndex++
	}
	if q.BudgetMin != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *q.BudgetMin)
		argIndex++
	}
	if q.BudgetMax != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *q.BudgetMax)
		argIndex++
	}
	if q.RoomsMin != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("rooms >= $%d", argIndex))
		args = append(args, *q.RoomsMin)
		argIndex++
	}
	if len(q.ExcludeIDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("NOT (id = ANY($%d))", argIndex))
		args = append(args, pq.Array(q.ExcludeIDs))
		argIndex++
	}

	location := strings.TrimSpace(q.Location)
	title := strings.TrimSpace(q.Title)
	switch {
	case location != "" && title != "":
		whereClauses = append(whereClauses, fmt.Sprintf("(location ILIKE $%d OR title ILIKE $%d)", argIndex, argIndex+1))
		args = append(args, likePattern(location), likePattern(title))
		argIndex += 2
	case location != "":
		whereClauses = append(whereClauses, fmt.Sprintf("location ILIKE $%d", argIndex))
		args = append(args, likePattern(location))
		argIndex++
	case title != "":
		whereClauses = append(whereClauses, fmt.Sprintf("title ILIKE $%d", argIndex))
		args = append(args, likePattern(title))
		argIndex++
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPropertyLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE %s
		ORDER BY featured DESC, sort_order, id
		LIMIT $%d
	`, columnList(""), strings.Join(whereClauses, " AND "), argIndex)

	return query, args
}

// SearchProperties returns active, available properties matching q.
func (r *PostgresRepository) SearchProperties(ctx context.Context, q model.PropertyQuery) ([]model.PropertySummary, error) {
	query, args := buildPropertyQuery(q)

	var props []model.PropertySummary
	if err := r.db.SelectContext(ctx, &props, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	return props, nil
}

// GetProperty returns one active, available property, or nil when there is none.
func (r *PostgresRepository) GetProperty(ctx context.Context, id int64) (*model.PropertySummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE %s AND id = $1
	`, columnList(""), availableProperty)

	var p model.PropertySummary
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &p, nil
}

// SimilarProperties orders available properties by cosine distance to the
// embedding of id. Nothing is returned when id has no embedding.
func (r *PostgresRepository) SimilarProperties(ctx context.Context, id int64, excludeIDs []int64, limit int) ([]model.PropertySummary, error) {
	if limit <= 0 {
		limit = defaultPropertyLimit
	}
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}

	query := fmt.Sprintf(`
		WITH ref AS (
			SELECT embedding FROM properties WHERE id = $1 AND embedding IS NOT NULL
		)
		SELECT %s
		FROM properties p, ref
		WHERE p.active = true AND p.status = 'available'
			AND p.embedding IS NOT NULL
			AND p.id <> $1
			AND NOT (p.id = ANY($2))
		ORDER BY p.embedding <=> ref.embedding
		LIMIT $3
	`, columnList("p."))

	var props []model.PropertySummary
	if err := r.db.SelectContext(ctx, &props, query, id, pq.Array(excludeIDs), limit); err != nil {
		return nil, fmt.Errorf("failed to find similar properties: %w", err)
	}
	return props, nil
}

// BatchUpdateEmbeddings updates embeddings for multiple properties in one
// transaction. Unknown property ids are reported and skipped.
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE properties SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Embedding)
		res, err := stmt.ExecContext(ctx, vec, item.PropertyID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("property_id %d: %v", item.PropertyID, err))
			continue
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			errs = append(errs, fmt.Sprintf("property_id %d: not found", item.PropertyID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}
