package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fairway/scorecard-server/internal/model"
)

type CourseRepository interface {
	FindByID(ctx context.Context, id string) (*model.Course, error)
	FindAll(ctx context.Context) ([]model.Course, error)
	Create(ctx context.Context, params model.CreateCourseParams) (*model.Course, error)
}

type courseRepo struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) FindByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.GetContext(ctx, &course, `SELECT * FROM courses WHERE id = $1`, id)
	return HandleNotFound(&course, err)
}

func (r *courseRepo) FindAll(ctx context.Context) ([]model.Course, error) {
	courses := []model.Course{}
	err := r.db.SelectContext(ctx, &courses, `SELECT * FROM courses ORDER BY name`)
	return courses, err
}

func (r *courseRepo) Create(ctx context.Context, params model.CreateCourseParams) (*model.Course, error) {
	var course model.Course
	err := r.db.GetContext(ctx, &course, `
		INSERT INTO courses (name, region, hole_count, pars)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.Name, params.Region, params.HoleCount, pq.Int64Array(params.Pars))
	if err != nil {
		return nil, err
	}
	return &course, nil
}
