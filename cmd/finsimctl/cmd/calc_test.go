package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/finsimulator/internal/projection/application"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCalc_MortgageFromStdin(t *testing.T) {
	out, err := execute(t, `{"price":5000000,"down_payment":1000000,"years":20,"rate":10}`, "calc", "mortgage")
	require.NoError(t, err)

	var resp application.MortgageResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 38_600.87, resp.MonthlyPayment)
}

func TestCalc_MonteCarloFromFileIsReproducible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"initial":10000,"monthly":500,"years":3,"avg_return":7,"risk":15,"simulations":100}`), 0o600))

	first, err := execute(t, "", "calc", "montecarlo", "-f", path, "--seed", "42", "--pretty")
	require.NoError(t, err)
	second, err := execute(t, "", "calc", "montecarlo", "-f", path, "--seed", "42", "--pretty")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "\n  \"statistics\"")
	assert.NotContains(t, first, "simulations_data")
}

func TestCalc_Errors(t *testing.T) {
	_, err := execute(t, `{"price":1}`, "calc", "bonds")
	assert.Error(t, err)

	_, err = execute(t, `{"price":1,"unknown":true}`, "calc", "mortgage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request")

	_, err = execute(t, `{"amount":1000,"years":0,"rate":5}`, "calc", "credit")
	require.Error(t, err)
	assert.True(t, application.IsValidationError(err))
}

func TestRunCalc_Compare(t *testing.T) {
	calc, closeFn, err := (&calcOptions{workers: 1}).calculator()
	require.NoError(t, err)
	defer closeFn()

	input := `{"type":"goal","scenarios":[
		{"name":"slow","data":{"goal_amount":100000,"years":5,"expected_rate":3}},
		{"name":"fast","data":{"goal_amount":100000,"years":5,"expected_rate":8}}
	]}`
	result, err := runCalc(context.Background(), calc, "compare", []byte(input))
	require.NoError(t, err)

	resp, ok := result.(*application.CompareResponse)
	require.True(t, ok)
	assert.Equal(t, "fast", resp.Recommendation)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "finsimctl dev")
	assert.Contains(t, out, "Go Version")
}
