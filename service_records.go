package recordkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// RECORD OPERATIONS
// ============================================================================

// RecordInput carries the writable fields of a record. SingleSelectID must
// reference a single_select option when set; every MultiSelectIDs entry must
// reference a multi_select option.
type RecordInput struct {
	TextField      string  `json:"text_field"`
	SingleSelectID *int64  `json:"single_select_id"`
	MultiSelectIDs []int64 `json:"multi_select_ids"`
}

// RecordPageConfig returns the pagination policy for record listings.
func RecordPageConfig() PageConfig {
	return PageConfig{
		DefaultSortField:  "created_at",
		AllowedSortFields: []string{"id", "text_field", "created_at", "updated_at"},
	}
}

// ListRecords returns one page of records ordered and searched per req, with
// creator, single-select option and multi-select options loaded. Search
// covers text_field.
func (s *Service) ListRecords(ctx context.Context, req PageRequest) (*Page[*Record], error) {
	q := s.db.NewSelect().
		Model((*Record)(nil)).
		Relation("SingleSelect").
		Relation("Creator")

	page, err := Paginate[*Record](ctx, q, qualifySort(req, "rec"), []string{"rec.text_field"})
	if err != nil {
		return nil, err
	}
	if err := s.loadRecordMultiOptions(ctx, page.Items); err != nil {
		return nil, err
	}
	return page, nil
}

// GetRecord returns the record with its relations loaded.
func (s *Service) GetRecord(ctx context.Context, id int64) (*Record, error) {
	rec := new(Record)
	err := s.db.NewSelect().
		Model(rec).
		Relation("SingleSelect").
		Relation("Creator").
		Where("rec.id = ?", id).
		Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrRecordNotFound, "no record with this id").WithResource("record", id)
		}
		return nil, dbkit.WithErr1(err, "GetRecord").Err()
	}
	if err := s.loadRecordMultiOptions(ctx, []*Record{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateRecord creates a record owned by createdBy and attaches its
// multi-select options, all in one transaction.
func (s *Service) CreateRecord(ctx context.Context, input RecordInput, createdBy int64) (*Record, error) {
	if err := s.validateRecordInput(ctx, input); err != nil {
		return nil, err
	}

	rec := &Record{
		TextField:      input.TextField,
		SingleSelectID: input.SingleSelectID,
		CreatedBy:      createdBy,
	}

	err := s.Transaction(ctx, func(tx *dbkit.Tx) error {
		result, err := tx.NewInsert().Model(rec).Exec(ctx)
		if err := dbkit.WithErr(result, err, "CreateRecord").Err(); err != nil {
			return err
		}
		return s.syncMultiOptions(ctx, tx, rec.ID, input.MultiSelectIDs)
	})
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDuplicateValue, "duplicate multi-select option").WithResource("record", rec.ID)
		}
		return nil, err
	}

	return s.GetRecord(ctx, rec.ID)
}

// UpdateRecord rewrites the record's writable fields and replaces its
// multi-select options, all in one transaction. CreatedBy never changes.
func (s *Service) UpdateRecord(ctx context.Context, id int64, input RecordInput) (*Record, error) {
	if _, err := s.GetRecord(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validateRecordInput(ctx, input); err != nil {
		return nil, err
	}

	err := s.Transaction(ctx, func(tx *dbkit.Tx) error {
		result, err := tx.NewUpdate().
			Model((*Record)(nil)).
			Set("text_field = ?", input.TextField).
			Set("single_select_id = ?", input.SingleSelectID).
			Set("updated_at = now()").
			Where("id = ?", id).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "UpdateRecord").Err(); err != nil {
			return err
		}

		result, err = tx.NewDelete().
			Model((*RecordMultiOption)(nil)).
			Where("record_id = ?", id).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "UpdateRecord.ClearOptions").Err(); err != nil {
			return err
		}
		return s.syncMultiOptions(ctx, tx, id, input.MultiSelectIDs)
	})
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDuplicateValue, "duplicate multi-select option").WithResource("record", id)
		}
		return nil, err
	}

	return s.GetRecord(ctx, id)
}

// DeleteRecord removes the record and its multi-select attachments.
func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	return s.Transaction(ctx, func(tx *dbkit.Tx) error {
		result, err := tx.NewDelete().
			Model((*RecordMultiOption)(nil)).
			Where("record_id = ?", id).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteRecord.ClearOptions").Err(); err != nil {
			return err
		}

		result, err = tx.NewDelete().
			Model((*Record)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		err = dbkit.WithErr(result, err, "DeleteRecord").Err()
		if err != nil && dbkit.IsNotFound(err) {
			return NewError(ErrRecordNotFound, "no record with this id").WithResource("record", id)
		}
		return err
	})
}

// validateRecordInput checks that referenced dropdown options exist and
// belong to the right dropdown.
func (s *Service) validateRecordInput(ctx context.Context, input RecordInput) error {
	if input.SingleSelectID != nil {
		opt, err := s.GetDropdownOption(ctx, *input.SingleSelectID)
		if err != nil {
			return err
		}
		if !opt.IsSingleSelect() {
			return NewError(ErrWrongOptionType, "single select value must be a single_select option").
				WithResource("dropdown_option", opt.ID)
		}
		if !opt.IsActive {
			return NewError(ErrWrongOptionType, "single select value must be an active option").
				WithResource("dropdown_option", opt.ID)
		}
	}

	if len(input.MultiSelectIDs) == 0 {
		return nil
	}

	var opts []DropdownOption
	err := s.db.NewSelect().
		Model(&opts).
		Where("opt.id IN (?)", bun.In(input.MultiSelectIDs)).
		Scan(ctx)
	if err := dbkit.WithErr1(err, "ValidateRecordInput").Err(); err != nil {
		return err
	}

	found := make(map[int64]DropdownOption, len(opts))
	for _, opt := range opts {
		found[opt.ID] = opt
	}
	for _, id := range input.MultiSelectIDs {
		opt, ok := found[id]
		if !ok {
			return NewError(ErrOptionNotFound, "no dropdown option with this id").
				WithResource("dropdown_option", id)
		}
		if !opt.IsMultiSelect() {
			return NewError(ErrWrongOptionType, "multi select values must be multi_select options").
				WithResource("dropdown_option", id)
		}
	}
	return nil
}

// syncMultiOptions inserts the pivot rows for a record. Duplicate ids in
// optionIDs violate the pivot's unique constraint and surface as a
// duplicate error.
func (s *Service) syncMultiOptions(ctx context.Context, tx *dbkit.Tx, recordID int64, optionIDs []int64) error {
	if len(optionIDs) == 0 {
		return nil
	}
	rows := make([]RecordMultiOption, 0, len(optionIDs))
	for _, optID := range optionIDs {
		rows = append(rows, RecordMultiOption{RecordID: recordID, DropdownOptionID: optID})
	}
	result, err := tx.NewInsert().Model(&rows).Exec(ctx)
	return dbkit.WithErr(result, err, "SyncMultiOptions").Err()
}
