package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sadopc/levelup/internal/bulk"
	"github.com/sadopc/levelup/internal/engine"
	"github.com/sadopc/levelup/internal/store"
)

type ImportMode string

const (
	ImportAppend  ImportMode = "append"
	ImportReplace ImportMode = "replace"
)

// ErrConfirmationRequired is returned when a replace import was not confirmed.
var ErrConfirmationRequired = errors.New("replace import deletes existing records and must be confirmed")

// ImportReport is the outcome of an import attempt. Result is always filled,
// even when the batch is rejected.
type ImportReport struct {
	BatchID  string
	Target   bulk.Target
	Mode     ImportMode
	Result   bulk.Result
	Inserted int
}

// PreviewImport validates a table without touching the store.
func (t *Tracker) PreviewImport(target bulk.Target, table bulk.Table) (bulk.Result, error) {
	_, res, err := bulk.Validate(table, target)
	return res, err
}

// Import validates table and, when every row is valid, inserts all of it in
// one transaction. Replace mode first deletes every record of the target type
// and requires confirmed to be true.
func (t *Tracker) Import(target bulk.Target, table bulk.Table, mode ImportMode, confirmed bool) (ImportReport, error) {
	report := ImportReport{Target: target, Mode: mode}
	switch mode {
	case ImportAppend:
	case ImportReplace:
		if !confirmed {
			return report, ErrConfirmationRequired
		}
	default:
		return report, &engine.ValidationError{
			Kind:    engine.ErrInvalidInput,
			Message: fmt.Sprintf("unknown import mode %q", mode),
		}
	}

	batch, res, err := bulk.Validate(table, target)
	if err != nil {
		return report, err
	}
	report.Result = res
	if !res.Valid {
		return report, &engine.ValidationError{
			Kind:    engine.ErrInvalidInput,
			Message: "import rejected:\n  " + strings.Join(res.Errors, "\n  "),
		}
	}

	quests, books, courses, err := batch.Records()
	if err != nil {
		return report, err
	}

	batchID := uuid.NewString()
	err = t.store.WithTx(func(tx *store.Store) error {
		if mode == ImportReplace {
			if err := clearTarget(tx, target); err != nil {
				return err
			}
		}
		for _, q := range quests {
			if _, err := tx.CreateQuest(q); err != nil {
				return err
			}
		}
		for _, b := range books {
			if _, err := tx.CreateBook(b); err != nil {
				return err
			}
		}
		for _, c := range courses {
			if _, err := tx.CreateCourse(c); err != nil {
				return err
			}
		}
		return tx.RecordImport(store.ImportBatch{
			ID:         batchID,
			Target:     string(target),
			Mode:       string(mode),
			RowCount:   batch.Len(),
			Warnings:   len(res.Warnings),
			ImportedAt: t.now(),
		})
	})
	if err != nil {
		return report, fmt.Errorf("import %s: %w", target, err)
	}

	report.BatchID = batchID
	report.Inserted = batch.Len()
	t.log.Info("import applied", "op", "import", "batch_id", batchID, "target", string(target),
		"mode", string(mode), "rows", report.Inserted, "warnings", len(res.Warnings))
	return report, nil
}

func (t *Tracker) Imports() ([]store.ImportBatch, error) {
	return t.store.ListImports()
}

func clearTarget(tx *store.Store, target bulk.Target) error {
	switch target {
	case bulk.TargetQuests:
		return tx.ClearQuests()
	case bulk.TargetBooks:
		return tx.ClearBooks()
	case bulk.TargetCourses:
		return tx.ClearCourses()
	}
	return fmt.Errorf("unknown import target %q", target)
}
