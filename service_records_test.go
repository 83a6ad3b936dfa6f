package recordkit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecordCRUD validates the record lifecycle including the multi-select
// pivot.
func TestRecordCRUD(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	owner := helper.CreateTestUser("record-owner", RoleUser)
	single := helper.CreateTestOption(DropdownSingleSelect, "CRUD Single")
	multiA := helper.CreateTestOption(DropdownMultiSelect, "CRUD Tag A")
	multiB := helper.CreateTestOption(DropdownMultiSelect, "CRUD Tag B")

	created, err := service.CreateRecord(ctx, RecordInput{
		TextField:      "crud record",
		SingleSelectID: &single.ID,
		MultiSelectIDs: []int64{multiA.ID, multiB.ID},
	}, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, owner.ID, created.CreatedBy)
	require.NotNil(t, created.SingleSelect)
	assert.Equal(t, single.ID, created.SingleSelect.ID)
	require.NotNil(t, created.Creator)
	assert.Equal(t, owner.ID, created.Creator.ID)
	assert.ElementsMatch(t, []int64{multiA.ID, multiB.ID}, created.MultiOptionIDs())

	// Update replaces the pivot set and clears the single select.
	updated, err := service.UpdateRecord(ctx, created.ID, RecordInput{
		TextField:      "crud record v2",
		SingleSelectID: nil,
		MultiSelectIDs: []int64{multiB.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "crud record v2", updated.TextField)
	assert.Nil(t, updated.SingleSelectID)
	assert.Equal(t, []int64{multiB.ID}, updated.MultiOptionIDs())
	assert.Equal(t, owner.ID, updated.CreatedBy, "ownership never changes")

	require.NoError(t, service.DeleteRecord(ctx, created.ID))
	_, err = service.GetRecord(ctx, created.ID)
	assert.True(t, IsNotFound(err))
}

// TestRecordValidation validates dropdown reference checking.
func TestRecordValidation(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	owner := helper.CreateTestUser("record-validation", RoleUser)
	single := helper.CreateTestOption(DropdownSingleSelect, "Val Single")
	multi := helper.CreateTestOption(DropdownMultiSelect, "Val Multi")

	// Multi option as single select value.
	_, err := service.CreateRecord(ctx, RecordInput{
		TextField:      "bad single",
		SingleSelectID: &multi.ID,
	}, owner.ID)
	assert.True(t, IsWrongOptionType(err))

	// Single option among the multi ids.
	_, err = service.CreateRecord(ctx, RecordInput{
		TextField:      "bad multi",
		MultiSelectIDs: []int64{single.ID},
	}, owner.ID)
	assert.True(t, IsWrongOptionType(err))

	// Deactivated single select option.
	inactive := false
	retired, err := service.UpdateDropdownOption(ctx, single.ID, DropdownOptionInput{
		Label:    single.Label,
		Value:    single.Value,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	_, err = service.CreateRecord(ctx, RecordInput{
		TextField:      "retired single",
		SingleSelectID: &retired.ID,
	}, owner.ID)
	assert.True(t, IsWrongOptionType(err))

	// Dangling references.
	missing := int64(999999999)
	_, err = service.CreateRecord(ctx, RecordInput{
		TextField:      "missing single",
		SingleSelectID: &missing,
	}, owner.ID)
	assert.True(t, IsNotFound(err))

	_, err = service.CreateRecord(ctx, RecordInput{
		TextField:      "missing multi",
		MultiSelectIDs: []int64{missing},
	}, owner.ID)
	assert.True(t, IsNotFound(err))
}

// TestRecordDuplicateMultiOption validates a repeated option id violates
// the pivot's unique constraint.
func TestRecordDuplicateMultiOption(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	owner := helper.CreateTestUser("record-dup-pivot", RoleUser)
	multi := helper.CreateTestOption(DropdownMultiSelect, "Dup Tag")

	_, err := service.CreateRecord(ctx, RecordInput{
		TextField:      "dup pivot",
		MultiSelectIDs: []int64{multi.ID, multi.ID},
	}, owner.ID)
	assert.Error(t, err)
	assert.True(t, IsDuplicateValue(err))
}

// TestListRecordsPagination validates windowing on the exact page boundary:
// 20 rows at 5 per page leave page 5 empty with true totals.
func TestListRecordsPagination(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	owner := helper.CreateTestUser("record-paging", RoleUser)
	nonce := helper.UniqueValue("paging")
	for i := 1; i <= 20; i++ {
		helper.CreateTestRecord(fmt.Sprintf("%s item %02d", nonce, i), owner, RecordInput{})
	}

	// The nonce search scopes the listing to this test's rows; the shared
	// test database keeps rows from other runs.
	base := NewPageRequest(RecordPageConfig()).WithPerPage(5).WithSearch(nonce)

	first, err := service.ListRecords(ctx, base.WithPage(1))
	require.NoError(t, err)
	assert.Len(t, first.Items, 5)
	assert.Equal(t, 20, first.Pagination.Total)
	assert.Equal(t, 4, first.Pagination.TotalPages)

	last, err := service.ListRecords(ctx, base.WithPage(4))
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)

	beyond, err := service.ListRecords(ctx, base.WithPage(5))
	require.NoError(t, err)
	assert.Empty(t, beyond.Items, "page past the end is empty, not an error")
	assert.Equal(t, 20, beyond.Pagination.Total)
	assert.Equal(t, 4, beyond.Pagination.TotalPages)
	assert.Equal(t, 5, beyond.Pagination.Page)
}

// TestListRecordsIdempotent validates repeating one request against an
// unchanged data set yields identical items and metadata.
func TestListRecordsIdempotent(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	owner := helper.CreateTestUser("record-repeat", RoleUser)
	nonce := helper.UniqueValue("repeat")
	for i := 1; i <= 7; i++ {
		helper.CreateTestRecord(fmt.Sprintf("%s row %d", nonce, i), owner, RecordInput{})
	}

	// Sorting by id makes ordering fully deterministic, so the item slices
	// must match element for element.
	req := NewPageRequest(RecordPageConfig()).
		WithSearch(nonce).
		WithSort("id", "asc").
		WithPerPage(5).
		WithPage(2)

	first, err := service.ListRecords(ctx, req)
	require.NoError(t, err)
	second, err := service.ListRecords(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Pagination, second.Pagination)
	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
		assert.Equal(t, first.Items[i].TextField, second.Items[i].TextField)
	}
}

// TestListRecordsSearch validates case-insensitive substring search over
// text_field.
func TestListRecordsSearch(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	owner := helper.CreateTestUser("record-search", RoleUser)
	nonce := helper.UniqueValue("search")
	helper.CreateTestRecord(nonce+" Alpha Report", owner, RecordInput{})
	helper.CreateTestRecord(nonce+" beta report", owner, RecordInput{})
	helper.CreateTestRecord(nonce+" Gamma Summary", owner, RecordInput{})

	req := NewPageRequest(RecordPageConfig()).WithSearch(nonce + " alpha")
	page, err := service.ListRecords(ctx, req)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Contains(t, page.Items[0].TextField, "Alpha Report")

	reports, err := service.ListRecords(ctx, NewPageRequest(RecordPageConfig()).WithSearch(nonce))
	require.NoError(t, err)
	assert.Equal(t, 3, reports.Pagination.Total)
}

// TestListRecordsSorting validates whitelisted ordering.
func TestListRecordsSorting(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	owner := helper.CreateTestUser("record-sort", RoleUser)
	nonce := helper.UniqueValue("sort")
	helper.CreateTestRecord(nonce+" bbb", owner, RecordInput{})
	helper.CreateTestRecord(nonce+" aaa", owner, RecordInput{})
	helper.CreateTestRecord(nonce+" ccc", owner, RecordInput{})

	req := NewPageRequest(RecordPageConfig()).
		WithSearch(nonce).
		WithSort("text_field", "asc")
	page, err := service.ListRecords(ctx, req)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Contains(t, page.Items[0].TextField, "aaa")
	assert.Contains(t, page.Items[2].TextField, "ccc")
}

// TestDeleteDropdownOptionDetachesRecords validates option deletion clears
// single-select references and pivot rows instead of orphaning records.
func TestDeleteDropdownOptionDetachesRecords(t *testing.T) {
	helper := NewTestDataHelper(t)
	if helper == nil {
		return
	}
	service, ctx := helper.GetService(), helper.GetContext()

	owner := helper.CreateTestUser("record-detach", RoleUser)
	single := helper.CreateTestOption(DropdownSingleSelect, "Detach Single")
	multi := helper.CreateTestOption(DropdownMultiSelect, "Detach Tag")

	rec, err := service.CreateRecord(ctx, RecordInput{
		TextField:      "detach target",
		SingleSelectID: &single.ID,
		MultiSelectIDs: []int64{multi.ID},
	}, owner.ID)
	require.NoError(t, err)

	require.NoError(t, service.DeleteDropdownOption(ctx, single.ID))
	require.NoError(t, service.DeleteDropdownOption(ctx, multi.ID))

	reloaded, err := service.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.SingleSelectID)
	assert.Empty(t, reloaded.MultiOptions)
}
