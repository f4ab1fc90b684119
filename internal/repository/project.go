package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

const defaultProjectLimit = 6

func buildProjectQuery(q model.ProjectQuery) (string, []interface{}) {
	whereClauses := []string{"active = true"}
	args := []interface{}{}
	argIndex := 1

	if location := strings.TrimSpace(q.Location); location != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(location ILIKE $%d OR name ILIKE $%d)", argIndex, argIndex))
		args = append(args, likePattern(location))
		argIndex++
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultProjectLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, name, slug, location, price_from, main_image, description
		FROM projects
		WHERE %s
		ORDER BY featured DESC, sort_order, id
		LIMIT $%d
	`, strings.Join(whereClauses, " AND "), argIndex)

	return query, args
}

// SearchProjects returns active projects, optionally matching a location or name.
func (r *PostgresRepository) SearchProjects(ctx context.Context, q model.ProjectQuery) ([]model.ProjectSummary, error) {
	query, args := buildProjectQuery(q)

	var projects []model.ProjectSummary
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}
	return projects, nil
}
