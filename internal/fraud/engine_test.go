package fraud

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/config"
)

const criticalScamMessage = "URGENT!!! Wire $5000 to Western Union NOW!!! No inspection needed, trust me!"

func newTestEngine(mode string) *Engine {
	return NewEngine(config.FraudConfig{Mode: mode, MaxInputSize: 4096})
}

func TestEvaluate_CleanMessage(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	verdict := engine.Evaluate("Hi, I am interested in your motorcycle. When can we arrange a viewing?")

	assert.Equal(t, 0, verdict.Score)
	assert.Equal(t, RiskLevelLow, verdict.RiskLevel)
	assert.False(t, verdict.Blocked)
	assert.Empty(t, verdict.Flags)
	assert.Empty(t, verdict.Reasons)
	assert.Empty(t, verdict.Warning)
}

func TestEvaluate_EmptyContent(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	for _, content := range []string{"", "   ", "\n\t"} {
		verdict := engine.Evaluate(content)

		assert.Equal(t, 0, verdict.Score)
		assert.Equal(t, RiskLevelLow, verdict.RiskLevel)
		assert.False(t, verdict.Blocked)
		assert.Empty(t, verdict.Flags)
	}
}

func TestEvaluate_CriticalBlockedInProduction(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	verdict := engine.Evaluate(criticalScamMessage)

	assert.Greater(t, verdict.Score, 60)
	assert.Equal(t, RiskLevelCritical, verdict.RiskLevel)
	assert.True(t, verdict.Blocked)
	assert.Contains(t, verdict.Flags, FlagPaymentScam)
	assert.Contains(t, verdict.Flags, FlagUrgency)
	assert.Contains(t, verdict.Flags, FlagVerificationBypass)
	assert.NotContains(t, verdict.Reasons, DevModeNote)
}

func TestEvaluate_CriticalNotBlockedInDevelopment(t *testing.T) {
	engine := newTestEngine("development")

	verdict := engine.Evaluate(criticalScamMessage)

	assert.Equal(t, RiskLevelCritical, verdict.RiskLevel)
	assert.False(t, verdict.Blocked)
	assert.Contains(t, verdict.Reasons, "(Development mode: would be blocked in production)")
}

func TestEvaluate_MediumRiskWarnsButDelivers(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	verdict := engine.Evaluate("I can give you a special discount if you pay cash only. Best price guaranteed!")

	assert.Equal(t, RiskLevelMedium, verdict.RiskLevel)
	assert.False(t, verdict.Blocked)
	assert.Equal(t, []string{FlagPriceManipulation}, verdict.Flags)
	assert.NotEmpty(t, verdict.Warning)
}

func TestEvaluate_HighRiskNotBlockedEvenInProduction(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	verdict := engine.Evaluate("I only accept payment by wire transfer before pickup.")

	assert.Equal(t, RiskLevelHigh, verdict.RiskLevel)
	assert.False(t, verdict.Blocked)
	assert.Equal(t, []string{FlagPaymentScam}, verdict.Flags)
	assert.NotEmpty(t, verdict.Warning)
}

func TestEvaluate_MultiplePatternsAccumulate(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	verdict := engine.Evaluate("Send money via Western Union and I will ship the motorcycle. Pay extra $500 for shipping costs.")

	assert.Contains(t, verdict.Flags, FlagPaymentScam)
	assert.Contains(t, verdict.Flags, FlagShippingScam)
	assert.GreaterOrEqual(t, verdict.Score, 61)
	assert.Contains(t, []RiskLevel{RiskLevelHigh, RiskLevelCritical}, verdict.RiskLevel)
}

func TestEvaluate_FlagsAppearOncePerPattern(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	verdict := engine.Evaluate("western union western union moneygram gift card wire transfer")

	assert.Equal(t, []string{FlagPaymentScam}, verdict.Flags)
	assert.Len(t, verdict.Reasons, 1)
}

func TestEvaluate_Deterministic(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	first := engine.Evaluate(criticalScamMessage)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, engine.Evaluate(criticalScamMessage))
	}
}

func TestEvaluate_MonotonicUnderAppendedScamText(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	bases := []string{
		"",
		"Is the bike still available?",
		"I can pick it up this weekend after a test ride.",
		criticalScamMessage,
	}
	for _, base := range bases {
		before := engine.Evaluate(base).Score
		after := engine.Evaluate(base + " Please send money by western union urgently.").Score
		assert.GreaterOrEqual(t, after, before, "base: %q", base)
	}
}

func TestEvaluate_CaseAndAccentInsensitive(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	lower := engine.Evaluate("pay me by western union")
	upper := engine.Evaluate("PAY ME BY WESTERN UNION")
	accented := engine.Evaluate("pay me by wéstérn úníon")

	assert.Equal(t, lower.Score, upper.Score)
	assert.Equal(t, lower.Score, accented.Score)
	assert.Contains(t, accented.Flags, FlagPaymentScam)
}

func TestEvaluate_WholeWordMatching(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	// "know" must not match the urgency cue "now"
	verdict := engine.Evaluate("Let me know if the gift card holder on the tank bag is included.")

	assert.NotContains(t, verdict.Flags, FlagHighRiskContent)
}

func TestEvaluate_InputTruncatedAtLimit(t *testing.T) {
	engine := NewEngine(config.FraudConfig{Mode: ModeProduction, MaxInputSize: 256})

	padding := strings.Repeat("motorcycle parts and maintenance records ", 10)
	require.Greater(t, len(padding), 256)

	beyondLimit := engine.Evaluate(padding + " western union")
	assert.Equal(t, RiskLevelLow, beyondLimit.RiskLevel)
	assert.Empty(t, beyondLimit.Flags)

	withinLimit := engine.Evaluate("western union " + padding)
	assert.Contains(t, withinLimit.Flags, FlagPaymentScam)
}

func TestEvaluate_TruncationPreservesUTF8(t *testing.T) {
	engine := NewEngine(config.FraudConfig{Mode: ModeProduction, MaxInputSize: 10})

	// The cap falls inside a multi-byte rune; evaluation must not panic
	verdict := engine.Evaluate("ééééééééééé")

	assert.Equal(t, RiskLevelLow, verdict.RiskLevel)
}

func TestEvaluate_ExclamationBurstIsUrgency(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	verdict := engine.Evaluate("Great bike!!! Call it a deal?")

	assert.Contains(t, verdict.Flags, FlagUrgency)
	assert.Equal(t, RiskLevelMedium, verdict.RiskLevel)
}

func TestEvaluate_PhoneNumberIsCommunicationRedirect(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	verdict := engine.Evaluate("You can dial 555-123-4567 anytime after work.")

	assert.Contains(t, verdict.Flags, FlagCommunicationRedirect)
}

func TestRiskLevelFor_TierBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLevelLow},
		{10, RiskLevelLow},
		{11, RiskLevelMedium},
		{35, RiskLevelMedium},
		{36, RiskLevelHigh},
		{60, RiskLevelHigh},
		{61, RiskLevelCritical},
		{200, RiskLevelCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, riskLevelFor(tt.score), "score %d", tt.score)
	}
}
