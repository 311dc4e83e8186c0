// Package yajournal records dispatch failures so they can be inspected after the fact.
//
// A Journal is plugged into a dispatcher as an error handler:
//
//	repo, err := yajournal.NewGormRepo(poolDB)
//	if err != nil {
//	    log.Fatalf("journal: %v", err)
//	}
//
//	d.AddErrorHandler(yajournal.New(repo, log).ErrorHandler())
package yajournal

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yadispatch"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
)

// MaxUpdateLength caps the stored representation of an update.
const MaxUpdateLength = 512

// Failure is one recorded dispatch failure.
type Failure struct {
	ID         string    `gorm:"primaryKey;size:36"`
	PassID     string    `gorm:"index;size:36"`
	Group      int       `gorm:"index"`
	Handler    string    `gorm:"size:255"`
	UpdateType string    `gorm:"size:255"`
	Update     string    `gorm:"type:text"`
	Code       int       `gorm:"index"`
	Message    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

// Repo stores failures.
type Repo interface {
	// Record inserts failure.
	Record(ctx context.Context, failure Failure) yaerrors.Error

	// Recent returns up to limit failures, newest first.
	Recent(ctx context.Context, limit int) ([]Failure, yaerrors.Error)
}

// Journal converts error handler calls into Failure records.
type Journal struct {
	repo Repo
	log  yalogger.Logger
}

func New(repo Repo, log yalogger.Logger) *Journal {
	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	return &Journal{repo: repo, log: log}
}

// ErrorHandler returns a dispatcher error handler writing every failure to the journal.
// Write errors are logged and otherwise ignored.
func (j *Journal) ErrorHandler() yadispatch.ErrorHandler {
	return func(ctx context.Context, data *yadispatch.HandlerData, update yadispatch.Update) {
		if err := j.repo.Record(ctx, NewFailure(data, update)); err != nil {
			j.log.Errorf("Failed to journal dispatch failure: %v", err)
		}
	}
}

// Recent returns up to limit failures, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Failure, yaerrors.Error) {
	if limit <= 0 {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			ErrInvalidLimit,
			fmt.Sprintf("limit %d", limit),
		)
	}

	failures, err := j.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err.Wrap("failed to read journal")
	}

	return failures, nil
}

// NewFailure builds the record for an error handler invocation.
func NewFailure(data *yadispatch.HandlerData, update yadispatch.Update) Failure {
	failure := Failure{
		ID:         uuid.NewString(),
		Group:      data.Group,
		Handler:    yadispatch.HandlerName(data.Handler),
		UpdateType: fmt.Sprintf("%T", update),
		Update:     truncate(fmt.Sprintf("%+v", update), MaxUpdateLength),
		Code:       http.StatusInternalServerError,
		CreatedAt:  time.Now(),
	}

	if data.PassID != uuid.Nil {
		failure.PassID = data.PassID.String()
	}

	if data.Err != nil {
		failure.Code = data.Err.Code()
		failure.Message = data.Err.Error()
	}

	return failure
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}
