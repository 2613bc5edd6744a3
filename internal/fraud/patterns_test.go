package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatterns_Triggers(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	tests := []struct {
		name    string
		content string
		flag    string
	}{
		{
			name:    "payment via untraceable method",
			content: "I only accept MoneyGram, nothing else.",
			flag:    FlagPaymentScam,
		},
		{
			name:    "shipping with upfront fee",
			content: "My courier will deliver it, you just cover the shipping fee upfront.",
			flag:    FlagShippingScam,
		},
		{
			name:    "time pressure",
			content: "This is urgent, I have another buyer coming.",
			flag:    FlagUrgency,
		},
		{
			name:    "move to whatsapp",
			content: "Message me on WhatsApp, it is easier there.",
			flag:    FlagCommunicationRedirect,
		},
		{
			name:    "hardship story",
			content: "I am selling because of medical bills, please be kind.",
			flag:    FlagEmotionalManipulation,
		},
		{
			name:    "discourage inspection",
			content: "The bike is perfect, no inspection necessary.",
			flag:    FlagVerificationBypass,
		},
		{
			name:    "selling for someone else",
			content: "I am selling this on behalf of a colleague abroad.",
			flag:    FlagImpersonation,
		},
		{
			name:    "pressure pricing",
			content: "Cash only and the price is way below market.",
			flag:    FlagPriceManipulation,
		},
		{
			name:    "scam denial",
			content: "I promise this is not a scam.",
			flag:    FlagHighRiskContent,
		},
		{
			name:    "payment plus urgency",
			content: "Send the bitcoin today and the bike is yours.",
			flag:    FlagHighRiskContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := engine.Evaluate(tt.content)
			assert.Contains(t, verdict.Flags, tt.flag)
		})
	}
}

func TestPatterns_LegitimateMessagesStayLow(t *testing.T) {
	engine := newTestEngine(ModeProduction)

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "asking about shipping without fees",
			content: "Would you consider shipping it to Denver, or is it pickup only?",
		},
		{
			name:    "mentioning a parent without estate framing",
			content: "My father rode this model for years, great machine.",
		},
		{
			name:    "negotiating normally",
			content: "Would you take 4200 if I bring the full amount at the viewing?",
		},
		{
			name:    "arranging an in-person inspection",
			content: "Happy to wait until you have inspected it and taken a test ride.",
		},
		{
			name:    "asking about service history",
			content: "Does it come with maintenance records and a clean title?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := engine.Evaluate(tt.content)
			assert.Equal(t, RiskLevelLow, verdict.RiskLevel, "flags: %v", verdict.Flags)
			assert.False(t, verdict.Blocked)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Western UNION", " western union "},
		{"collapses punctuation", "now!!!  really, now.", " now really now "},
		{"folds accents", "wéstérn únión", " western union "},
		{"drops apostrophes", "cashier's check, don't worry", " cashiers check dont worry "},
		{"empty", "", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in).norm)
		})
	}
}
