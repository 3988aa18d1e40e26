package scenarios_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matheuscscp/splitynab/internal/scenarios"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	res := scenarios.Run(&out)

	assert.Equal(t, len(scenarios.Classifications)+len(scenarios.Formattings), res.Passed)
	assert.Zero(t, res.Failed)
	assert.Empty(t, res.Failures)

	text := out.String()
	assert.Equal(t, 7, strings.Count(text, "  PASS\n"))
	assert.NotContains(t, text, "FAIL")
	assert.Contains(t, text, "Result: expense - $15.50 - Import: true")
	assert.Contains(t, text, "Result: reimbursement - $30.00 - Import: true")
	assert.Contains(t, text, "Known gap: partial payments are not imported")
	assert.Contains(t, text, "Amount: 40000 milliunits ($40.00)")
	assert.Contains(t, text, "Amount: -25500 milliunits ($-25.50)")
	assert.Contains(t, text, "Type: OUTFLOW")
	assert.Contains(t, text, "Memo: Reimbursement: Gas for road trip")
	assert.Contains(t, text, "7 passed, 0 failed")
}
