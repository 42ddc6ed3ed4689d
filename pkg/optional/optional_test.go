package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Parts  Field[string] `json:"repair_parts"`
	Master Field[int64]  `json:"master_id"`
}

func TestField_UnmarshalStates(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantNull    bool
		wantValue   string
	}{
		{"ausente", `{}`, false, false, ""},
		{"null explícito", `{"repair_parts": null}`, true, true, ""},
		{"valor", `{"repair_parts": "Компрессор"}`, true, false, "Компрессор"},
		{"cadena vacía", `{"repair_parts": ""}`, true, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.wantPresent, p.Parts.Present)
			assert.Equal(t, tt.wantNull, p.Parts.Null)
			assert.Equal(t, tt.wantValue, p.Parts.Value)
		})
	}
}

func TestField_UnmarshalTypeError(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"master_id": "dos"}`), &p)
	assert.Error(t, err)
}

func TestField_Ptr(t *testing.T) {
	assert.Nil(t, Field[int64]{}.Ptr())
	assert.Nil(t, Null[int64]().Ptr())

	f := Of[int64](4)
	p := f.Ptr()
	require.NotNil(t, p)
	assert.Equal(t, int64(4), *p)

	*p = 9
	assert.Equal(t, int64(4), f.Value, "Ptr devuelve una copia")
}

func TestField_ApplyTo(t *testing.T) {
	dst := "anterior"
	assert.False(t, Field[string]{}.ApplyTo(&dst))
	assert.False(t, Null[string]().ApplyTo(&dst))
	assert.Equal(t, "anterior", dst)

	assert.True(t, Of("nuevo").ApplyTo(&dst))
	assert.Equal(t, "nuevo", dst)
}

func TestField_ApplyToPtr(t *testing.T) {
	v := int64(2)
	dst := &v

	assert.False(t, Field[int64]{}.ApplyToPtr(&dst))
	require.NotNil(t, dst)

	assert.True(t, Of[int64](5).ApplyToPtr(&dst))
	require.NotNil(t, dst)
	assert.Equal(t, int64(5), *dst)

	assert.True(t, Null[int64]().ApplyToPtr(&dst))
	assert.Nil(t, dst)
}

func TestField_Marshal(t *testing.T) {
	out, err := json.Marshal(payload{Parts: Of("Мембрана"), Master: Null[int64]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"repair_parts":"Мембрана","master_id":null}`, string(out))
}
