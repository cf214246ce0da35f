package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var v struct {
		F *Date `json:"f"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"f":"2024-03-15"}`), &v))
	assert.Equal(t, New(2024, time.March, 15), *v.F)

	require.NoError(t, json.Unmarshal([]byte(`{"f":"2024-03-15T22:10:00-06:00"}`), &v))
	assert.Equal(t, "2024-03-15", v.F.String())

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"f":"2024-03-15"}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"f":"15/03/2024"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"f":20240315}`), &v))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-02", d.String())

	require.NoError(t, d.Scan([]byte("2023-12-31")))
	assert.Equal(t, New(2023, time.December, 31), d)

	assert.Error(t, d.Scan(42))
}

func TestDate_Compare(t *testing.T) {
	a, b := New(2024, 1, 1), New(2024, 1, 2)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(Of(time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC))))
}
