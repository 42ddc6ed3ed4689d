package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Менеджер по качеству ")
	require.NoError(t, err)
	assert.Equal(t, RoleQualityManager, r)

	_, err = ParseRole("Администратор")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRole_IsStaff(t *testing.T) {
	for _, r := range StaffRoles {
		assert.True(t, r.IsStaff(), r)
	}
	assert.False(t, RoleCustomer.IsStaff())
	assert.False(t, Role("x").IsStaff())
}

func TestRole_In(t *testing.T) {
	assert.True(t, RoleManager.In(RoleOperator, RoleManager))
	assert.False(t, RoleCustomer.In(StaffRoles...))
	assert.False(t, RoleManager.In())
}

func TestRequest_RepairDays(t *testing.T) {
	r := &Request{StartDate: time.Date(2023, 6, 6, 0, 0, 0, 0, time.UTC)}
	_, ok := r.RepairDays()
	assert.False(t, ok)
	assert.False(t, r.Completed())

	done := time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC)
	r.CompletionDate = &done
	days, ok := r.RepairDays()
	assert.True(t, ok)
	assert.Equal(t, 10, days)
	assert.True(t, r.Completed())
}

func TestTruncateDate(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	got := TruncateDate(time.Date(2024, 1, 10, 23, 59, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), got)
}
