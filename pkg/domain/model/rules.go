package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// DefaultRepeatWindowDays is the trailing window used to count a submitter's
// prior false escalations
const DefaultRepeatWindowDays = 30

// RuleToggles controls which validation rules are active. Every rule ships
// disabled; enabling one is an explicit deployment decision.
type RuleToggles struct {
	MissingTicket  bool `yaml:"missing_ticket"`
	TicketMismatch bool `yaml:"ticket_mismatch"`
	TextHeuristic  bool `yaml:"text_heuristic"`
	NeedByDistance bool `yaml:"need_by_distance"`
}

// Lexicon holds the keyword sets for the urgency text heuristic
type Lexicon struct {
	Urgent    []string `yaml:"urgent"`
	NonUrgent []string `yaml:"non_urgent"`
}

// RulesConfig is the immutable validation configuration loaded at startup
type RulesConfig struct {
	Rules              RuleToggles `yaml:"rules"`
	Lexicon            Lexicon     `yaml:"lexicon"`
	RepeatWindowDays   int         `yaml:"repeat_window_days"`
	OversightRecipient string      `yaml:"oversight_recipient"`
}

// DefaultRulesConfig returns the shipped configuration: all rules off,
// built-in lexicon, 30-day repeat window.
func DefaultRulesConfig() *RulesConfig {
	return &RulesConfig{
		Lexicon: Lexicon{
			Urgent: []string{
				"outage",
				"customer impact",
				"work stoppage",
				"blocked",
				"immediately",
				"asap",
				"grounded",
			},
			NonUrgent: []string{
				"question",
				"no rush",
				"whenever",
				"nice to have",
				"not urgent",
				"fyi",
			},
		},
		RepeatWindowDays: DefaultRepeatWindowDays,
	}
}

// Validate validates the rules configuration
func (c *RulesConfig) Validate() error {
	if c.RepeatWindowDays <= 0 {
		return goerr.New("repeat window must be positive",
			goerr.V("days", c.RepeatWindowDays))
	}
	if c.Rules.TextHeuristic && len(c.Lexicon.Urgent) == 0 && len(c.Lexicon.NonUrgent) == 0 {
		return goerr.New("text heuristic is enabled but the lexicon is empty")
	}
	return nil
}

// ApplyDefaults fills unset fields with the shipped defaults so a partial
// YAML file only has to name what it overrides
func (c *RulesConfig) ApplyDefaults() {
	def := DefaultRulesConfig()
	if c.RepeatWindowDays == 0 {
		c.RepeatWindowDays = def.RepeatWindowDays
	}
	if len(c.Lexicon.Urgent) == 0 {
		c.Lexicon.Urgent = def.Lexicon.Urgent
	}
	if len(c.Lexicon.NonUrgent) == 0 {
		c.Lexicon.NonUrgent = def.Lexicon.NonUrgent
	}
}
