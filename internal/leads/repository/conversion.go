package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ConversionDetails is the persisted financial record for a converted
// lead. Its presence is the durable marker that conversion was validated,
// so a status write that failed mid-flight can be retried safely.
type ConversionDetails struct {
	LeadID     uuid.UUID
	CourseName *string
	CourseFee  float64
	AmountPaid float64
	DueAmount  float64
}

// GetConversionDetails returns nil when the lead has no conversion record
// yet. Absence is a normal state, not an error.
func (r *Repository) GetConversionDetails(ctx context.Context, leadID uuid.UUID) (*ConversionDetails, error) {
	var details ConversionDetails
	err := r.pool.QueryRow(ctx, `
		SELECT lead_id, course_name, course_fee, amount_paid, due_amount
		FROM conversion_details
		WHERE lead_id = $1
	`, leadID).Scan(
		&details.LeadID, &details.CourseName, &details.CourseFee,
		&details.AmountPaid, &details.DueAmount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// UpsertConversionDetails writes the validated financial record. One row
// per lead; a re-conversion or amendment overwrites the previous figures.
func (r *Repository) UpsertConversionDetails(ctx context.Context, details ConversionDetails) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO conversion_details (lead_id, course_name, course_fee, amount_paid, due_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lead_id) DO UPDATE SET
			course_name = EXCLUDED.course_name,
			course_fee = EXCLUDED.course_fee,
			amount_paid = EXCLUDED.amount_paid,
			due_amount = EXCLUDED.due_amount,
			updated_at = now()
	`,
		details.LeadID, details.CourseName, details.CourseFee,
		details.AmountPaid, details.DueAmount,
	)
	return err
}

// Course is a catalog offering an operator converts a lead onto.
type Course struct {
	ID   uuid.UUID
	Name string
}

func (r *Repository) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name FROM courses ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]Course, 0)
	for rows.Next() {
		var course Course
		if err := rows.Scan(&course.ID, &course.Name); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// CountCourses feeds the conversion validator: a non-empty catalog makes
// course selection mandatory.
func (r *Repository) CountCourses(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count)
	return count, err
}
