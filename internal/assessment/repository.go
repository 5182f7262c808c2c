package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

// Archive keeps a durable copy of every assessment created. The in-memory
// Store stays the source of truth for reads.
type Archive interface {
	Save(ctx context.Context, a Assessment) error
	GetByID(ctx context.Context, id string) (*Assessment, error)
}

type postgresArchive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) Archive {
	if db == nil {
		return nopArchive{}
	}
	return &postgresArchive{db: db}
}

func (r *postgresArchive) Save(ctx context.Context, a Assessment) error {
	if a.SelectedSymptoms == nil {
		a.SelectedSymptoms = []string{}
	}
	var userInfo sql.NullString
	if a.UserInfo != nil {
		raw, err := json.Marshal(a.UserInfo)
		if err != nil {
			return fmt.Errorf("failed to marshal user info: %w", err)
		}
		userInfo = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		INSERT INTO assessments (id, session_id, condition, condition_name, score, risk, matches,
			total_symptoms, selected_symptoms, risk_factor_score, recommendations, user_info, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, nullString(a.SessionID), a.Condition, a.ConditionName, a.Score, a.Risk, a.Matches,
		a.TotalSymptoms, pq.Array(a.SelectedSymptoms), a.RiskFactorScore, pq.Array(a.Recommendations),
		userInfo, a.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to archive assessment %s: %w", a.ID, err)
	}
	return nil
}

func (r *postgresArchive) GetByID(ctx context.Context, id string) (*Assessment, error) {
	query := `SELECT id, session_id, condition, condition_name, score, risk, matches, total_symptoms,
		selected_symptoms, risk_factor_score, recommendations, user_info, created_at
		FROM assessments WHERE id = $1`

	var a Assessment
	var sessionID sql.NullString
	var userInfoJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&sessionID,
		&a.Condition,
		&a.ConditionName,
		&a.Score,
		&a.Risk,
		&a.Matches,
		&a.TotalSymptoms,
		pq.Array(&a.SelectedSymptoms),
		&a.RiskFactorScore,
		pq.Array(&a.Recommendations),
		&userInfoJSON,
		&a.Timestamp,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("archived assessment %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	a.SessionID = sessionID.String
	if len(userInfoJSON) > 0 {
		a.UserInfo = &UserInfo{}
		if err := json.Unmarshal(userInfoJSON, a.UserInfo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
		}
	}
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nopArchive is used when no database is configured.
type nopArchive struct{}

func (nopArchive) Save(context.Context, Assessment) error { return nil }

func (nopArchive) GetByID(_ context.Context, id string) (*Assessment, error) {
	return nil, fmt.Errorf("archived assessment %s: %w", id, ErrNotFound)
}
