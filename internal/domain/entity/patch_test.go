package entity

import (
	"testing"
	"time"

	"github.com/jhoicas/climate-service/pkg/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleRequest() *Request {
	return &Request{
		ID:                 3,
		StartDate:          time.Date(2023, 7, 7, 0, 0, 0, 0, time.UTC),
		TechType:           "Кондиционер",
		TechModel:          "Fujitsu ASYG07LMCA",
		ProblemDescription: "Вообще не работает",
		Status:             StatusInRepair,
		RepairParts:        ptr("Конденсатор"),
		MasterID:           ptr(int64(4)),
		ClientID:           9,
	}
}

func TestRequestPatch_Empty(t *testing.T) {
	assert.True(t, RequestPatch{}.Empty())
	assert.False(t, RequestPatch{MasterID: optional.Null[int64]()}.Empty())
}

func TestRequestPatch_ApplyOnlyPresentFields(t *testing.T) {
	r := sampleRequest()
	done := time.Date(2023, 7, 20, 15, 30, 0, 0, time.UTC)

	RequestPatch{
		Status:         optional.Of(StatusReadyForPickup),
		CompletionDate: optional.Of(done),
	}.Apply(r)

	assert.Equal(t, StatusReadyForPickup, r.Status)
	require.NotNil(t, r.CompletionDate)
	assert.Equal(t, time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC), *r.CompletionDate, "la hora se descarta")
	assert.Equal(t, "Конденсатор", *r.RepairParts)
	assert.Equal(t, int64(4), *r.MasterID)
	assert.Equal(t, int64(9), r.ClientID)
}

func TestRequestPatch_NullClearsOptionalColumns(t *testing.T) {
	r := sampleRequest()
	r.CompletionDate = ptr(time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC))

	RequestPatch{
		CompletionDate: optional.Null[time.Time](),
		RepairParts:    optional.Null[string](),
		MasterID:       optional.Null[int64](),
	}.Apply(r)

	assert.Nil(t, r.CompletionDate)
	assert.Nil(t, r.RepairParts)
	assert.Nil(t, r.MasterID)
	assert.Equal(t, StatusInRepair, r.Status)
}

func TestRequestPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   RequestPatch
		wantErr bool
	}{
		{"vacío", RequestPatch{}, false},
		{"estado libre", RequestPatch{Status: optional.Of(RequestStatus("Передана в гарантию"))}, false},
		{"estado null", RequestPatch{Status: optional.Null[RequestStatus]()}, true},
		{"estado en blanco", RequestPatch{Status: optional.Of(RequestStatus("  "))}, true},
		{"client_id null", RequestPatch{ClientID: optional.Null[int64]()}, true},
		{"client_id cero", RequestPatch{ClientID: optional.Of[int64](0)}, true},
		{"master_id null", RequestPatch{MasterID: optional.Null[int64]()}, false},
		{"master_id negativo", RequestPatch{MasterID: optional.Of[int64](-1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserPatch(t *testing.T) {
	u := &User{ID: 1, FIO: "Широков Василий", Phone: "89210563128", Login: "login1", PasswordHash: "h", Role: RoleManager}

	assert.Error(t, UserPatch{FIO: optional.Of(" ")}.Validate())
	assert.Error(t, UserPatch{Phone: optional.Null[string]()}.Validate())
	assert.Error(t, UserPatch{Role: optional.Of(Role("Директор"))}.Validate())
	assert.NoError(t, UserPatch{Phone: optional.Of("")}.Validate())

	p := UserPatch{Phone: optional.Of("89000000000"), Role: optional.Of(RoleQualityManager)}
	require.NoError(t, p.Validate())
	p.Apply(u)
	assert.Equal(t, "89000000000", u.Phone)
	assert.Equal(t, RoleQualityManager, u.Role)
	assert.Equal(t, "login1", u.Login)
}

func TestCommentPatch(t *testing.T) {
	c := &Comment{ID: 1, Message: "Интересная поломка", MasterID: 2, RequestID: 1}

	assert.Error(t, CommentPatch{Message: optional.Of("")}.Validate())
	assert.Error(t, CommentPatch{RequestID: optional.Null[int64]()}.Validate())

	p := CommentPatch{Message: optional.Of("Заменили мембрану")}
	require.NoError(t, p.Validate())
	p.Apply(c)
	assert.Equal(t, "Заменили мембрану", c.Message)
	assert.Equal(t, int64(2), c.MasterID)
}
