package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	BulkInsert(ctx context.Context, questions []model.Question) error
	FindByIDs(ctx context.Context, ids []string) ([]model.Question, error)
	ListBySet(ctx context.Context, setNumber int) ([]model.Question, error)
	CountBySet(ctx context.Context, setNumber int) (int, error)
}

type pgQuestionRepository struct {
	db *sql.DB
}

func NewPgQuestionRepository(db *sql.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

const questionColumns = `id, set_number, question_text, option_a, option_b, option_c, option_d, correct_option, explanation, question_type, difficulty, created_by, created_at, updated_at`

const insertQuestionQuery = `INSERT INTO questions (id, set_number, question_text, option_a, option_b, option_c, option_d, correct_option, explanation, question_type, difficulty, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (r *pgQuestionRepository) Create(ctx context.Context, q *model.Question) error {
	_, err := r.db.ExecContext(ctx, insertQuestionQuery,
		q.ID, q.SetNumber, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.CorrectOption, q.Explanation, q.Type, q.Difficulty, q.CreatedByID,
	)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.Create: %w", err)
	}
	return nil
}

// BulkInsert writes the whole batch in one transaction; a failure on
// any row leaves none of them persisted.
func (r *pgQuestionRepository) BulkInsert(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.BulkInsert begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertQuestionQuery)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.BulkInsert prepare: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		_, err := stmt.ExecContext(ctx,
			q.ID, q.SetNumber, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
			q.CorrectOption, q.Explanation, q.Type, q.Difficulty, q.CreatedByID,
		)
		if err != nil {
			return fmt.Errorf("pgQuestionRepository.BulkInsert exec for question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgQuestionRepository.BulkInsert commit: %w", err)
	}
	return nil
}

func (r *pgQuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + questionColumns + ` FROM questions WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.FindByIDs query: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *pgQuestionRepository) ListBySet(ctx context.Context, setNumber int) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE set_number = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, setNumber)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.ListBySet query: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *pgQuestionRepository) CountBySet(ctx context.Context, setNumber int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions WHERE set_number = $1`, setNumber).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("pgQuestionRepository.CountBySet: %w", err)
	}
	return count, nil
}

func scanQuestions(rows *sql.Rows) ([]model.Question, error) {
	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(
			&q.ID, &q.SetNumber, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
			&q.CorrectOption, &q.Explanation, &q.Type, &q.Difficulty, &q.CreatedByID,
			&q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanQuestions: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanQuestions rows.Err: %w", err)
	}
	return questions, nil
}
