package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"cancerrisk/ml"
	_ "github.com/mattn/go-sqlite3"
)

// PredictionRecord is one row of the audit log.
type PredictionRecord struct {
	ID          int64           `json:"id"`
	RequestID   string          `json:"request_id"`
	Input       ml.PatientInput `json:"input"`
	BMICategory string          `json:"bmi_category"`
	AgeGroup    string          `json:"age_group"`
	Label       int             `json:"label"`
	Result      string          `json:"result"`
	Confidence  float64         `json:"confidence"`
	ModelType   string          `json:"model_type"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Store is a SQLite-backed prediction audit log.
type Store struct {
	database *sql.DB
}

// Open creates the database file (and its directory) if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        request_id TEXT,
        age REAL NOT NULL,
        gender INTEGER NOT NULL,
        bmi REAL NOT NULL,
        smoking INTEGER NOT NULL,
        genetic_risk INTEGER NOT NULL,
        physical_activity REAL NOT NULL,
        alcohol_intake REAL NOT NULL,
        cancer_history INTEGER NOT NULL,
        bmi_category VARCHAR(20),
        age_group VARCHAR(20),
        predicted_label INTEGER NOT NULL,
        result TEXT NOT NULL,
        confidence REAL,
        model_type VARCHAR(50),
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, err
	}
	return &Store{database: database}, nil
}

func (s *Store) Close() error {
	if s == nil || s.database == nil {
		return nil
	}
	return s.database.Close()
}

func (s *Store) SavePrediction(ctx context.Context, record PredictionRecord) error {
	if s == nil || s.database == nil {
		return errors.New("database not initialized")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	in := record.Input
	_, err := s.database.ExecContext(ctx, `
        INSERT INTO predictions (
            request_id, age, gender, bmi, smoking, genetic_risk,
            physical_activity, alcohol_intake, cancer_history,
            bmi_category, age_group, predicted_label, result, confidence,
            model_type, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RequestID,
		in.Age,
		in.Gender,
		in.BMI,
		in.Smoking,
		in.GeneticRisk,
		in.PhysicalActivity,
		in.AlcoholIntake,
		in.CancerHistory,
		record.BMICategory,
		record.AgeGroup,
		record.Label,
		record.Result,
		record.Confidence,
		record.ModelType,
		record.CreatedAt,
	)
	return err
}

// RecentPredictions returns up to limit records, newest first.
func (s *Store) RecentPredictions(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if s == nil || s.database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.database.QueryContext(ctx, `
        SELECT id, request_id, age, gender, bmi, smoking, genetic_risk,
               physical_activity, alcohol_intake, cancer_history,
               bmi_category, age_group, predicted_label, result, confidence,
               model_type, created_at
        FROM predictions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0)
	for rows.Next() {
		var r PredictionRecord
		var requestID, bmiCategory, ageGroup, modelType sql.NullString
		var confidence sql.NullFloat64
		err := rows.Scan(&r.ID, &requestID,
			&r.Input.Age, &r.Input.Gender, &r.Input.BMI, &r.Input.Smoking, &r.Input.GeneticRisk,
			&r.Input.PhysicalActivity, &r.Input.AlcoholIntake, &r.Input.CancerHistory,
			&bmiCategory, &ageGroup, &r.Label, &r.Result, &confidence,
			&modelType, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		r.RequestID = requestID.String
		r.BMICategory = bmiCategory.String
		r.AgeGroup = ageGroup.String
		r.ModelType = modelType.String
		r.Confidence = confidence.Float64
		records = append(records, r)
	}
	return records, rows.Err()
}
