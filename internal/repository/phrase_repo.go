package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rizzline-backend/internal/models"
)

// DefaultCategory is the catch-all label applied to candidates that
// arrive without a category.
const DefaultCategory = "高甜语录"

// querier is the slice of the pool the repository uses. *pgxpool.Pool
// satisfies it.
type querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PhraseRepo struct {
	db querier
}

func NewPhraseRepo(pool *pgxpool.Pool) *PhraseRepo {
	return &PhraseRepo{db: pool}
}

const phraseColumns = "id, content, category, tags, is_pickup_line, created_at"

func scanPhrase(row pgx.Row) (*models.Phrase, error) {
	p := &models.Phrase{}
	err := row.Scan(&p.ID, &p.Content, &p.Category, &p.Tags, &p.IsPickupLine, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns phrases newest-first, optionally filtered by exact category
// and a content substring.
func (r *PhraseRepo) List(ctx context.Context, category, search string, limit, offset int) ([]*models.Phrase, error) {
	var args []interface{}
	var conds []string
	argIdx := 1

	if category != "" {
		conds = append(conds, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, category)
		argIdx++
	}
	if search != "" {
		conds = append(conds, fmt.Sprintf("content ILIKE $%d", argIdx))
		args = append(args, "%"+search+"%")
		argIdx++
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf("SELECT %s FROM phrases %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		phraseColumns, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	phrases := []*models.Phrase{}
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}

	return phrases, rows.Err()
}

// Random picks one phrase uniformly at random, optionally within a category.
// Returns (nil, nil) when no phrase matches.
func (r *PhraseRepo) Random(ctx context.Context, category string) (*models.Phrase, error) {
	query := fmt.Sprintf("SELECT %s FROM phrases", phraseColumns)
	var args []interface{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY random() LIMIT 1"

	p, err := scanPhrase(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Categories returns the distinct categories with their phrase counts,
// ordered by count descending.
func (r *PhraseRepo) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := r.db.Query(ctx,
		"SELECT category, COUNT(*) FROM phrases GROUP BY category ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// SaveNew inserts the candidates whose exact content is not already stored
// and returns the number actually inserted. The whole batch commits once.
// The unique constraint on content backstops the exists check against
// concurrent writers.
func (r *PhraseRepo) SaveNew(ctx context.Context, candidates []models.PhraseCandidate) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	added := 0
	for _, c := range candidates {
		content := strings.TrimSpace(c.Content)
		if content == "" {
			continue
		}

		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM phrases WHERE content = $1)", content).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to check duplicate: %w", err)
		}
		if exists {
			continue
		}

		category := c.Category
		if category == "" {
			category = DefaultCategory
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO phrases (content, category, tags, is_pickup_line)
			 VALUES ($1, $2, $3, $4) ON CONFLICT (content) DO NOTHING`,
			content, category, c.Tags, c.IsPickupLine)
		if err != nil {
			return 0, fmt.Errorf("failed to insert phrase: %w", err)
		}
		added += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}

	return added, nil
}
