// Package repositories holds the pgx-backed persistence layer. Projects and
// their edit history are the only persisted state; render jobs never touch
// the database.
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"clipforge/internal/edit"
	"clipforge/internal/models"
	"clipforge/internal/pkg/errors"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and its first history revision in one transaction.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "projects.create", "could not begin transaction")
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO projects (id, name, source_ref, spec_json)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.SourceRef, p.Spec).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.CodeConflict, "project name already exists").
				WithField("name", p.Name)
		}
		return errors.Wrap(err, "projects.create", "insert failed")
	}

	if err := r.appendRevision(ctx, tx, p.ID, p.Spec); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, source_ref, spec_json, created_at, updated_at
		FROM projects
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "projects.list", "query failed")
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.SourceRef, &p.Spec, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "projects.list", "scan failed")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := r.db.QueryRow(ctx, `
		SELECT id, name, source_ref, spec_json, created_at, updated_at, deleted_at
		FROM projects
		WHERE id=$1 AND deleted_at IS NULL
	`, id).Scan(&p.ID, &p.Name, &p.SourceRef, &p.Spec, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NotFound("project", id)
		}
		return nil, errors.Wrap(err, "projects.get", "query failed")
	}
	return &p, nil
}

// UpdateSpec replaces the project's current spec and appends a history
// revision, atomically.
func (r *ProjectRepository) UpdateSpec(ctx context.Context, id string, spec edit.EditSpec) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "projects.update", "could not begin transaction")
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE projects
		SET spec_json=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, id, spec)
	if err != nil {
		return errors.Wrap(err, "projects.update", "update failed")
	}
	if cmd.RowsAffected() == 0 {
		return errors.NotFound("project", id)
	}

	if err := r.appendRevision(ctx, tx, id, spec); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete soft-deletes; history rows stay.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE projects
		SET deleted_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return errors.Wrap(err, "projects.delete", "update failed")
	}
	if cmd.RowsAffected() == 0 {
		return errors.NotFound("project", id)
	}
	return nil
}

// History lists a project's revisions, newest first.
func (r *ProjectRepository) History(ctx context.Context, projectID string) ([]models.EditRevision, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, spec_json, created_at
		FROM edit_revisions
		WHERE project_id=$1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "projects.history", "query failed")
	}
	defer rows.Close()

	var out []models.EditRevision
	for rows.Next() {
		var rev models.EditRevision
		if err := rows.Scan(&rev.ID, &rev.ProjectID, &rev.Spec, &rev.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "projects.history", "scan failed")
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) appendRevision(ctx context.Context, tx pgx.Tx, projectID string, spec edit.EditSpec) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO edit_revisions (id, project_id, spec_json)
		VALUES ($1,$2,$3)
	`, uuid.NewString(), projectID, spec)
	if err != nil {
		return errors.Wrap(err, "projects.history", "revision insert failed")
	}
	return nil
}

// isUniqueViolation detects PostgreSQL 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
