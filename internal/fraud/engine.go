package fraud

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/config"
	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
)

// Risk tier boundaries. A score of zero up to lowMax is low, up to medMax
// medium, up to highMax high, and anything above highMax critical.
const (
	lowMax  = 10
	medMax  = 35
	highMax = 60
)

const defaultMaxInputSize = 4096

// ModeProduction is the only mode in which critical messages are blocked
const ModeProduction = "production"

// warningText is attached to medium and high verdicts. Those messages are
// delivered; the warning is advisory.
const warningText = "This message shows signs of a potential scam. Never send money before seeing the motorcycle in person."

// Engine scores message content against the pattern table. Evaluation is
// deterministic and side-effect free: the same content always yields the
// same verdict, regardless of who sent it or when.
type Engine struct {
	mode         string
	maxInputSize int
	patterns     []pattern
}

// NewEngine creates an engine from configuration
func NewEngine(cfg config.FraudConfig) *Engine {
	maxSize := cfg.MaxInputSize
	if maxSize <= 0 {
		maxSize = defaultMaxInputSize
	}
	return &Engine{
		mode:         cfg.Mode,
		maxInputSize: maxSize,
		patterns:     defaultPatterns(),
	}
}

// Evaluate scores a single message. It never fails: if anything inside the
// rule evaluation panics, the message is released with a low-risk verdict
// rather than held hostage by a scorer bug.
func (e *Engine) Evaluate(content string) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Fraud evaluation panicked, failing open",
				zap.String("panic", fmt.Sprint(r)),
			)
			verdict = failOpenVerdict()
		}
	}()

	in := normalize(truncate(content, e.maxInputSize))

	verdict = Verdict{
		RiskLevel: RiskLevelLow,
		Flags:     []string{},
		Reasons:   []string{},
	}

	for _, p := range e.patterns {
		if p.Matcher.Match(in) {
			verdict.Score += p.Weight
			verdict.Flags = append(verdict.Flags, p.ID)
			verdict.Reasons = append(verdict.Reasons, p.Reason)
		}
	}

	verdict.RiskLevel = riskLevelFor(verdict.Score)

	switch verdict.RiskLevel {
	case RiskLevelCritical:
		if e.mode == ModeProduction {
			verdict.Blocked = true
		} else {
			verdict.Reasons = append(verdict.Reasons, DevModeNote)
		}
	case RiskLevelMedium, RiskLevelHigh:
		verdict.Warning = warningText
	}

	return verdict
}

// Mode reports the blocking mode the engine was configured with
func (e *Engine) Mode() string {
	return e.mode
}

func riskLevelFor(score int) RiskLevel {
	switch {
	case score <= lowMax:
		return RiskLevelLow
	case score <= medMax:
		return RiskLevelMedium
	case score <= highMax:
		return RiskLevelHigh
	default:
		return RiskLevelCritical
	}
}

// failOpenVerdict is the verdict used whenever scoring cannot complete
func failOpenVerdict() Verdict {
	return Verdict{
		Score:     0,
		RiskLevel: RiskLevelLow,
		Blocked:   false,
		Flags:     []string{},
		Reasons:   []string{},
	}
}

// truncate caps the evaluated content without splitting a UTF-8 sequence
func truncate(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
