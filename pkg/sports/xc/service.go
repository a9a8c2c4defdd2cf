package xc

import (
	"context"
	"fmt"
	"github.com/Geniuskaa/race_results/pkg/database"
	"github.com/jackc/pgx/v4"
	"go.uber.org/zap"
)

const createResultTable = `create table if not exists race_result (
	id          bigserial primary key,
	race        text        not null,
	place       int         not null,
	bib         int         not null,
	last_name   text        not null,
	first_name  text        not null,
	grade       int         not null,
	school      text        not null,
	finish_time text        not null,
	finish_ms   bigint,
	score       text        not null,
	created_at  timestamptz not null default now(),
	unique (race, bib)
);`

// A re-run of the same race replaces its rows instead of failing on the bib.
const insertResult = `insert into race_result (race, place, bib, last_name, first_name, grade, school,
		finish_time, finish_ms, score) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	on conflict (race, bib) do update set place = excluded.place, last_name = excluded.last_name,
		first_name = excluded.first_name, grade = excluded.grade, school = excluded.school,
		finish_time = excluded.finish_time, finish_ms = excluded.finish_ms, score = excluded.score
	returning race_result.bib;`

type Service struct {
	db     *database.Postgres
	logger *zap.Logger
}

type Response struct {
	CountOfFailedRows int
	ErrsOfFailedRows  []error
	AddedParticipants []string
	CountOfAddedParts int
}

func NewService(db *database.Postgres, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, createResultTable); err != nil {
		return fmt.Errorf("EnsureSchema failed: %w", err)
	}
	return nil
}

// UploadResults stores all results of one race in a single transaction.
func (s *Service) UploadResults(ctx context.Context, race string, results []Result) (*Response, error) {
	batch, resp := resultBatch(race, results)
	if batch.Len() == 0 {
		return resp, nil
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("Pool.Begin failed: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	br := tx.SendBatch(ctx, batch)
	for _, r := range results {
		var bib int
		if err := br.QueryRow().Scan(&bib); err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("insert of bib %d failed: %w", r.Bib, err)
		}
		resp.AddedParticipants = append(resp.AddedParticipants, r.FullName())
		resp.CountOfAddedParts++
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("br.Close failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx.Commit failed: %w", err)
	}

	s.logger.Info("Results stored", zap.String("race", race), zap.Int("count", resp.CountOfAddedParts))
	return resp, nil
}

func resultBatch(race string, results []Result) (*pgx.Batch, *Response) {
	batch := &pgx.Batch{}
	resp := &Response{}

	for _, r := range results {
		var finishMs *int64
		if d, err := r.FinishDuration(); err == nil {
			ms := d.Milliseconds()
			finishMs = &ms
		}

		batch.Queue(insertResult, race, r.Place, r.Bib, r.LastName, r.FirstName, r.Grade, r.School,
			r.Time, finishMs, r.Score)
	}

	return batch, resp
}
