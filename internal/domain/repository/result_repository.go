package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ResultRepository interface {
	// CreateAttempt persists all answers and the quiz result in one
	// transaction. A unique violation on (user_id, set_number) is
	// reported as common.ErrDuplicateAttempt; on any error nothing is
	// committed.
	CreateAttempt(ctx context.Context, result *model.QuizResult, answers []model.Answer) error
	FindByUserAndSet(ctx context.Context, userID string, setNumber int) (*model.QuizResult, error)
	ListAnswersBySet(ctx context.Context, setNumber int) ([]model.Answer, error)
	ListResultsBySet(ctx context.Context, setNumber int) ([]model.QuizResult, error)
	CountAnswers(ctx context.Context) (int, error)
	CountResults(ctx context.Context) (int, error)
	DeleteAnswersBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgResultRepository struct {
	db *sql.DB
}

func NewPgResultRepository(db *sql.DB) ResultRepository {
	return &pgResultRepository{db: db}
}

func (r *pgResultRepository) CreateAttempt(ctx context.Context, result *model.QuizResult, answers []model.Answer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgResultRepository.CreateAttempt begin: %w", err)
	}
	defer tx.Rollback()

	// Timestamps are stamped by the service so the rows match the
	// response the submitter saw.
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO answers (id, user_id, question_id, set_number, selected_option, is_correct, marks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return fmt.Errorf("pgResultRepository.CreateAttempt prepare: %w", err)
	}
	defer stmt.Close()

	for _, a := range answers {
		_, err := stmt.ExecContext(ctx, a.ID, a.UserID, a.QuestionID, a.SetNumber, a.SelectedOption, a.IsCorrect, a.Marks, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("pgResultRepository.CreateAttempt insert answer %s: %w", a.ID, err)
		}
	}

	answerIDs, err := json.Marshal(result.AnswerIDs)
	if err != nil {
		return fmt.Errorf("pgResultRepository.CreateAttempt marshal answer ids: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO quiz_results (id, user_id, set_number, total_marks, answer_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		result.ID, result.UserID, result.SetNumber, result.TotalMarks, answerIDs, result.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The constraint, not the service-level pre-check, is what
			// makes concurrent duplicate submissions safe.
			return fmt.Errorf("result already exists for user %s set %d: %w", result.UserID, result.SetNumber, common.ErrDuplicateAttempt)
		}
		return fmt.Errorf("pgResultRepository.CreateAttempt insert result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgResultRepository.CreateAttempt commit: %w", err)
	}
	return nil
}

func (r *pgResultRepository) FindByUserAndSet(ctx context.Context, userID string, setNumber int) (*model.QuizResult, error) {
	query := `SELECT id, user_id, set_number, total_marks, answer_ids, created_at
	          FROM quiz_results WHERE user_id = $1 AND set_number = $2`

	result := &model.QuizResult{}
	var answerIDs []byte
	err := r.db.QueryRowContext(ctx, query, userID, setNumber).Scan(
		&result.ID, &result.UserID, &result.SetNumber, &result.TotalMarks, &answerIDs, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgResultRepository.FindByUserAndSet: %w", err)
	}
	if err := json.Unmarshal(answerIDs, &result.AnswerIDs); err != nil {
		return nil, fmt.Errorf("pgResultRepository.FindByUserAndSet unmarshal answer ids: %w", err)
	}
	return result, nil
}

func (r *pgResultRepository) ListAnswersBySet(ctx context.Context, setNumber int) ([]model.Answer, error) {
	query := `SELECT id, user_id, question_id, set_number, selected_option, is_correct, marks, created_at
	          FROM answers WHERE set_number = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, setNumber)
	if err != nil {
		return nil, fmt.Errorf("pgResultRepository.ListAnswersBySet query: %w", err)
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.SetNumber, &a.SelectedOption, &a.IsCorrect, &a.Marks, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgResultRepository.ListAnswersBySet scan: %w", err)
		}
		answers = append(answers, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgResultRepository.ListAnswersBySet rows.Err: %w", err)
	}
	return answers, nil
}

func (r *pgResultRepository) ListResultsBySet(ctx context.Context, setNumber int) ([]model.QuizResult, error) {
	query := `SELECT id, user_id, set_number, total_marks, answer_ids, created_at
	          FROM quiz_results WHERE set_number = $1 ORDER BY total_marks DESC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, setNumber)
	if err != nil {
		return nil, fmt.Errorf("pgResultRepository.ListResultsBySet query: %w", err)
	}
	defer rows.Close()

	results := []model.QuizResult{}
	for rows.Next() {
		var res model.QuizResult
		var answerIDs []byte
		if err := rows.Scan(&res.ID, &res.UserID, &res.SetNumber, &res.TotalMarks, &answerIDs, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgResultRepository.ListResultsBySet scan: %w", err)
		}
		if err := json.Unmarshal(answerIDs, &res.AnswerIDs); err != nil {
			return nil, fmt.Errorf("pgResultRepository.ListResultsBySet unmarshal: %w", err)
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgResultRepository.ListResultsBySet rows.Err: %w", err)
	}
	return results, nil
}

func (r *pgResultRepository) CountAnswers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM answers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgResultRepository.CountAnswers: %w", err)
	}
	return count, nil
}

func (r *pgResultRepository) CountResults(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quiz_results`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgResultRepository.CountResults: %w", err)
	}
	return count, nil
}

// DeleteAnswersBefore removes answer rows created before the cutoff.
// Quiz results keep their totals; only the per-question rows go.
func (r *pgResultRepository) DeleteAnswersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM answers WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pgResultRepository.DeleteAnswersBefore: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pgResultRepository.DeleteAnswersBefore rows affected: %w", err)
	}
	return deleted, nil
}
