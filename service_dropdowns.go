package recordkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// DROPDOWN OPTION OPERATIONS
// ============================================================================

// DropdownOptionInput carries the writable fields of a dropdown option.
type DropdownOptionInput struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	IsActive *bool  `json:"is_active"`
}

// GroupedOptions holds the active options of both dropdowns, for record
// forms.
type GroupedOptions struct {
	SingleSelect []DropdownOption `json:"single_select"`
	MultiSelect  []DropdownOption `json:"multi_select"`
}

// ListDropdownOptions returns the active options grouped by type, ordered by
// label within each group.
func (s *Service) ListDropdownOptions(ctx context.Context) (*GroupedOptions, error) {
	var opts []DropdownOption
	err := s.db.NewSelect().
		Model(&opts).
		Where("opt.is_active = ?", true).
		Order("opt.label ASC").
		Scan(ctx)
	if err := dbkit.WithErr1(err, "ListDropdownOptions").Err(); err != nil {
		return nil, err
	}

	grouped := &GroupedOptions{
		SingleSelect: []DropdownOption{},
		MultiSelect:  []DropdownOption{},
	}
	for _, opt := range opts {
		switch opt.Type {
		case DropdownSingleSelect:
			grouped.SingleSelect = append(grouped.SingleSelect, opt)
		case DropdownMultiSelect:
			grouped.MultiSelect = append(grouped.MultiSelect, opt)
		}
	}
	return grouped, nil
}

// ListDropdownOptionsByType returns all options (active or not) of one
// dropdown, ordered by label.
func (s *Service) ListDropdownOptionsByType(ctx context.Context, dropdownType string) ([]DropdownOption, error) {
	if !ValidDropdownType(dropdownType) {
		return nil, NewError(ErrInvalidDropdownType, dropdownType)
	}

	var opts []DropdownOption
	err := s.db.NewSelect().
		Model(&opts).
		Where("opt.type = ?", dropdownType).
		Order("opt.label ASC").
		Scan(ctx)
	if err := dbkit.WithErr1(err, "ListDropdownOptionsByType").Err(); err != nil {
		return nil, err
	}
	return opts, nil
}

// GetDropdownOption returns the option by id.
func (s *Service) GetDropdownOption(ctx context.Context, id int64) (*DropdownOption, error) {
	opt := new(DropdownOption)
	err := s.db.NewSelect().
		Model(opt).
		Where("opt.id = ?", id).
		Scan(ctx)
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrOptionNotFound, "no dropdown option with this id").
				WithResource("dropdown_option", id)
		}
		return nil, dbkit.WithErr1(err, "GetDropdownOption").Err()
	}
	return opt, nil
}

// CreateDropdownOption creates an option. Value is unique within its type.
func (s *Service) CreateDropdownOption(ctx context.Context, input DropdownOptionInput) (*DropdownOption, error) {
	if !ValidDropdownType(input.Type) {
		return nil, NewError(ErrInvalidDropdownType, input.Type)
	}

	opt := &DropdownOption{
		Type:     input.Type,
		Label:    input.Label,
		Value:    input.Value,
		IsActive: true,
	}
	if input.IsActive != nil {
		opt.IsActive = *input.IsActive
	}

	result, err := s.db.NewInsert().Model(opt).Exec(ctx)
	if err := dbkit.WithErr(result, err, "CreateDropdownOption").Err(); err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDuplicateValue, "value already exists for this dropdown")
		}
		return nil, err
	}
	return opt, nil
}

// UpdateDropdownOption rewrites the option's label, value and active flag.
// The type of an existing option never changes; records already reference it
// under its current dropdown.
func (s *Service) UpdateDropdownOption(ctx context.Context, id int64, input DropdownOptionInput) (*DropdownOption, error) {
	opt, err := s.GetDropdownOption(ctx, id)
	if err != nil {
		return nil, err
	}

	opt.Label = input.Label
	opt.Value = input.Value
	if input.IsActive != nil {
		opt.IsActive = *input.IsActive
	}

	result, err := s.db.NewUpdate().
		Model(opt).
		Set("label = ?", opt.Label).
		Set("value = ?", opt.Value).
		Set("is_active = ?", opt.IsActive).
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdateDropdownOption").Err(); err != nil {
		if dbkit.IsDuplicate(err) {
			return nil, NewError(ErrDuplicateValue, "value already exists for this dropdown")
		}
		return nil, err
	}
	return opt, nil
}

// DeleteDropdownOption removes the option. Multi-select attachments go with
// it; records using it as single select keep a dangling-free NULL through
// the schema's ON DELETE SET NULL.
func (s *Service) DeleteDropdownOption(ctx context.Context, id int64) error {
	return s.Transaction(ctx, func(tx *dbkit.Tx) error {
		result, err := tx.NewDelete().
			Model((*RecordMultiOption)(nil)).
			Where("dropdown_option_id = ?", id).
			Exec(ctx)
		if err := dbkit.WithErr(result, err, "DeleteDropdownOption.Detach").Err(); err != nil {
			return err
		}

		result, err = tx.NewDelete().
			Model((*DropdownOption)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		err = dbkit.WithErr(result, err, "DeleteDropdownOption").Err()
		if err != nil && dbkit.IsNotFound(err) {
			return NewError(ErrOptionNotFound, "no dropdown option with this id").
				WithResource("dropdown_option", id)
		}
		return err
	})
}
