package importer

import (
	"testing"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAnalysisSchema(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	issues := ConvertAnalysisSchema(validSchema(), now)

	require.Len(t, issues, 2)

	first := issues[0]
	assert.Equal(t, "grammar.agreement@96", first.ID)
	assert.Equal(t, int64(12), first.ItemID)
	assert.Equal(t, domain.EngineDeterministic, first.Engine)
	assert.Equal(t, domain.SeverityWarning, first.Severity)
	assert.Equal(t, domain.DecisionPending, first.DecisionStatus)
	assert.Equal(t, 120, first.Position.HTMLStart)
	assert.Equal(t, 96, first.Position.TextStart)
	assert.Equal(t, "The teams are", first.Suggested)
	assert.Equal(t, now, first.CreatedAt)

	assert.Equal(t, "legal.claim@310", issues[1].ID)
	assert.Equal(t, domain.SeverityCritical, issues[1].Severity)
}

func TestConvertAnalysisSchema_StableIDsAcrossPasses(t *testing.T) {
	now := time.Now().UTC()

	a := ConvertAnalysisSchema(validSchema(), now)
	b := ConvertAnalysisSchema(validSchema(), now.Add(time.Hour))

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}
