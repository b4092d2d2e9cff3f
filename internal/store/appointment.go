package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/r-yvan/healify/internal/model"
)

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, patient_id, doctor_id, appointment_time, location, status)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.AppointmentTime, a.Location, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

const appointmentCols = `
	a.id, a.patient_id, a.doctor_id, a.appointment_time, a.location, a.status,
	p.name, d.name, a.created_at, a.updated_at`

const appointmentJoin = `
	FROM appointments a
	JOIN users p ON p.id = a.patient_id
	JOIN users d ON d.id = a.doctor_id`

// Listing order is insertion order (created_at, id). No stronger ordering
// is promised; ties on created_at break on id so the order is stable.
func (s *Store) ListAppointmentsForPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx, `a.patient_id`, patientID)
}

func (s *Store) ListAppointmentsForDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx, `a.doctor_id`, doctorID)
}

func (s *Store) listAppointments(ctx context.Context, col, id string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+appointmentCols+appointmentJoin+`
		 WHERE `+col+` = $1
		 ORDER BY a.created_at, a.id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT`+appointmentCols+appointmentJoin+`
		 WHERE a.id = $1`, id,
	), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// RespondAppointment performs the one-shot PENDING -> ACCEPTED|REJECTED
// transition. The row is locked for the duration of the transaction, so two
// concurrent responses linearize: the first wins, the second sees a
// non-PENDING status and fails with ErrNotPending.
func (s *Store) RespondAppointment(ctx context.Context, id, doctorID string, next model.Status) (*model.Appointment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var ownerID string
	var cur model.Status
	err = tx.QueryRow(ctx,
		`SELECT doctor_id, status FROM appointments WHERE id = $1 FOR UPDATE`, id,
	).Scan(&ownerID, &cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if ownerID != doctorID {
		return nil, model.ErrNotOwner
	}
	if cur != model.StatusPending {
		return nil, model.ErrNotPending
	}

	a := &model.Appointment{}
	err = scanAppointment(tx.QueryRow(ctx,
		`WITH updated AS (
			UPDATE appointments SET status = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING *
		 )
		 SELECT`+appointmentCols+`
		 FROM updated a
		 JOIN users p ON p.id = a.patient_id
		 JOIN users d ON d.id = a.doctor_id`,
		next, id,
	), a)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func scanAppointment(row pgx.Row, a *model.Appointment) error {
	return row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentTime,
		&a.Location, &a.Status, &a.PatientName, &a.DoctorName,
		&a.CreatedAt, &a.UpdatedAt)
}
