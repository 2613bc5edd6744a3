package fraud

import (
	"regexp"
	"strings"
)

// input carries the two normalized views of a message. norm is lowercased,
// accent-folded, with punctuation collapsed to single spaces and padded with
// a leading and trailing space, so " term " lookups get word-boundary
// semantics. raw is only lowercased and accent-folded, preserving
// punctuation for regex rules.
type input struct {
	norm string
	raw  string
}

// Matcher decides whether a single rule fires on a message
type Matcher interface {
	Match(in input) bool
}

// keywordSet fires when any of its terms appears as a whole word or phrase
type keywordSet struct {
	terms []string
}

func newKeywordSet(terms ...string) keywordSet {
	padded := make([]string, len(terms))
	for i, t := range terms {
		padded[i] = " " + t + " "
	}
	return keywordSet{terms: padded}
}

func (k keywordSet) Match(in input) bool {
	for _, t := range k.terms {
		if strings.Contains(in.norm, t) {
			return true
		}
	}
	return false
}

// coOccurrence fires only when every group contributes at least one term.
// It expresses rules of the form "a payment instrument AND an urgency cue".
type coOccurrence struct {
	groups []keywordSet
}

func newCoOccurrence(groups ...[]string) coOccurrence {
	c := coOccurrence{groups: make([]keywordSet, len(groups))}
	for i, g := range groups {
		c.groups[i] = newKeywordSet(g...)
	}
	return c
}

func (c coOccurrence) Match(in input) bool {
	for _, g := range c.groups {
		if !g.Match(in) {
			return false
		}
	}
	return true
}

// regexMatcher fires when the expression matches the raw text
type regexMatcher struct {
	re *regexp.Regexp
}

func newRegex(expr string) regexMatcher {
	return regexMatcher{re: regexp.MustCompile(expr)}
}

func (r regexMatcher) Match(in input) bool {
	return r.re.MatchString(in.raw)
}

// anyOf fires when any of its sub-matchers fires
type anyOf struct {
	matchers []Matcher
}

func newAnyOf(matchers ...Matcher) anyOf {
	return anyOf{matchers: matchers}
}

func (a anyOf) Match(in input) bool {
	for _, m := range a.matchers {
		if m.Match(in) {
			return true
		}
	}
	return false
}

// pattern is one scoring rule. The table is evaluated in order and each
// pattern contributes its weight at most once, so flag order is stable.
type pattern struct {
	ID      string
	Weight  int
	Reason  string
	Matcher Matcher
}

// defaultPatterns returns the rule table. Weights are tuned against the
// risk tiers: a lone soft signal lands in medium, two independent signals
// or one hard signal land in high, and payment scams combined with anything
// else cross into critical.
func defaultPatterns() []pattern {
	return []pattern{
		{
			ID:     FlagPaymentScam,
			Weight: 40,
			Reason: "Requests an untraceable or irreversible payment method",
			Matcher: newKeywordSet(
				"western union",
				"moneygram",
				"money gram",
				"wire transfer",
				"wire the money",
				"wire me",
				"send money",
				"transfer the money",
				"bitcoin",
				"cryptocurrency",
				"crypto payment",
				"gift card",
				"gift cards",
				"prepaid card",
				"cashiers check",
				"certified check",
				"zelle me",
			),
		},
		{
			ID:     FlagShippingScam,
			Weight: 30,
			Reason: "Offers shipping with upfront fees instead of an in-person handover",
			Matcher: newCoOccurrence(
				[]string{"ship", "shipping", "shipped", "courier", "freight", "deliver the", "delivery service"},
				[]string{"shipping cost", "shipping costs", "shipping fee", "shipping fees", "courier fee", "extra", "upfront", "in advance", "escrow", "shipping agent", "transport company will"},
			),
		},
		{
			ID:     FlagUrgency,
			Weight: 20,
			Reason: "Applies time pressure to rush the decision",
			Matcher: newAnyOf(
				newKeywordSet(
					"urgent",
					"urgently",
					"act fast",
					"act now",
					"right now",
					"today only",
					"last chance",
					"expires today",
					"must sell today",
					"must sell now",
					"before someone else",
					"immediately",
				),
				newRegex(`!{3,}`),
			),
		},
		{
			ID:     FlagCommunicationRedirect,
			Weight: 20,
			Reason: "Tries to move the conversation off the platform",
			Matcher: newAnyOf(
				newKeywordSet(
					"whatsapp",
					"telegram",
					"signal app",
					"call me",
					"text me",
					"email me",
					"my number is",
					"reach me at",
					"off the platform",
					"outside this platform",
					"outside the app",
					"contact me directly",
				),
				newRegex(`\+?\d[\d\s().-]{7,}\d`),
			),
		},
		{
			ID:     FlagEmotionalManipulation,
			Weight: 20,
			Reason: "Uses a hardship story to lower the buyer's guard",
			Matcher: newKeywordSet(
				"medical bills",
				"medical emergency",
				"family emergency",
				"hospital bills",
				"cancer treatment",
				"passed away",
				"funeral",
				"deceased",
				"please help me",
				"desperate",
				"feed my family",
				"lost my job",
			),
		},
		{
			ID:     FlagVerificationBypass,
			Weight: 25,
			Reason: "Discourages inspection, test rides or paperwork checks",
			Matcher: newKeywordSet(
				"no inspection",
				"without inspection",
				"no need to inspect",
				"skip the inspection",
				"no test ride",
				"without seeing it",
				"sight unseen",
				"trust me",
				"just trust",
				"honest seller",
				"no paperwork needed",
				"dont need the title",
				"no title needed",
			),
		},
		{
			ID:     FlagImpersonation,
			Weight: 20,
			Reason: "Claims to sell on behalf of someone else",
			Matcher: newKeywordSet(
				"on behalf of",
				"my fathers bike",
				"my late",
				"deceased father",
				"deceased husband",
				"inherited",
				"estate sale",
				"selling for my",
				"for a friend who",
				"my client",
			),
		},
		{
			ID:     FlagPriceManipulation,
			Weight: 20,
			Reason: "Price or payment terms engineered to pressure the buyer",
			Matcher: newKeywordSet(
				"cash only",
				"special discount",
				"special price",
				"best price guaranteed",
				"below market",
				"way below",
				"half the price",
				"too good to pass",
				"priced to sell today",
				"full payment now",
				"deposit to hold",
				"deposit first",
			),
		},
		{
			ID:     FlagHighRiskContent,
			Weight: 50,
			Reason: "Combines payment instructions with pressure tactics",
			Matcher: newAnyOf(
				newKeywordSet(
					"not a scam",
					"this is not a scam",
					"100 legit",
					"totally legit",
					"completely legal",
					"guaranteed or your money back",
				),
				newCoOccurrence(
					[]string{"western union", "moneygram", "wire transfer", "send money", "bitcoin", "gift card", "prepaid card"},
					[]string{"urgent", "urgently", "now", "today", "immediately", "asap", "right away"},
				),
			),
		},
	}
}

var accentFolds = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n', 'ý': 'y',
}

// normalize produces the two views of the message the matchers work on
func normalize(content string) input {
	lowered := strings.Map(func(r rune) rune {
		if folded, ok := accentFolds[r]; ok {
			return folded
		}
		return r
	}, strings.ToLower(content))

	var b strings.Builder
	b.Grow(len(lowered) + 2)
	b.WriteByte(' ')
	lastSpace := true
	for _, r := range lowered {
		// Drop apostrophes so "cashier's" matches "cashiers"
		if r == '\'' || r == '’' {
			continue
		}
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	if !lastSpace {
		b.WriteByte(' ')
	}

	return input{norm: b.String(), raw: lowered}
}
