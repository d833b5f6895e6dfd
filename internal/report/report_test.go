package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_KeepsInsertionOrder(t *testing.T) {
	r := New("randomized_benchmarking")
	r.Add("seed", 3)
	r.Add("average gate fidelity", 0.99)
	r.Add("fit params : a, b, p", []float64{0.5, 0.5, 0.98})
	r.Add("seed", 4)

	assert.Equal(t, []string{"seed", "average gate fidelity", "fit params : a, b, p"}, r.Keys())
	v, ok := r.Get("seed")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	f, ok := r.Float("average gate fidelity")
	require.True(t, ok)
	assert.Equal(t, 0.99, f)
	_, ok = r.Float("fit params : a, b, p")
	assert.False(t, ok)
}

func TestReport_JSONRoundTrip(t *testing.T) {
	r := New("unitarity")
	r.Add("zeta", 1.5)
	r.Add("alpha", []float64{1, 2})

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"unitarity","zeta":1.5,"alpha":[1,2]}`, string(data))

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "unitarity", back.Name)
	assert.Equal(t, []string{"zeta", "alpha"}, back.Keys())
	alpha, _ := back.Get("alpha")
	assert.Equal(t, []any{1.0, 2.0}, alpha)
}

func TestReport_UnmarshalRejectsNonObject(t *testing.T) {
	var r Report
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"name":3}`), &r))
}

func TestReport_MarshalRejectsUnencodableValue(t *testing.T) {
	r := New("bad")
	r.Add("ch", make(chan int))
	_, err := json.Marshal(r)
	assert.Error(t, err)
}
