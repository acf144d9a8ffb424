package dirhash

// StrategyKind tags a ReadingStrategy variant.
type StrategyKind int

const (
	StrategyBuffer StrategyKind = iota
	StrategyComplete
	StrategyMemoryMapped
	StrategyScenario
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyBuffer:
		return "Buffer"
	case StrategyComplete:
		return "Complete"
	case StrategyMemoryMapped:
		return "MemoryMapped"
	case StrategyScenario:
		return "Scenario"
	default:
		return "Unknown"
	}
}

// SizeRange is a half-open byte-size interval [Min, Max) used by Scenario rules.
type SizeRange struct {
	Min int64
	Max int64
}

func (r SizeRange) contains(size int64) bool {
	return size >= r.Min && size < r.Max
}

// ScenarioRule pairs a size range with the terminal strategy to use for it.
type ScenarioRule struct {
	Range    SizeRange
	Strategy ReadingStrategy
}

// ReadingStrategy selects how a file's bytes are read. Buffer, Complete and
// MemoryMapped are terminal; Scenario dispatches on file size to one of them
// in declared order, one level deep only.
type ReadingStrategy struct {
	kind  StrategyKind
	rules []ScenarioRule
}

func Buffer() ReadingStrategy       { return ReadingStrategy{kind: StrategyBuffer} }
func Complete() ReadingStrategy     { return ReadingStrategy{kind: StrategyComplete} }
func MemoryMapped() ReadingStrategy { return ReadingStrategy{kind: StrategyMemoryMapped} }

// Scenario builds a size-dispatched strategy. Each rule's Strategy must
// itself be non-Scenario; violating that returns ErrInvalidStrategy.
func Scenario(rules ...ScenarioRule) (ReadingStrategy, error) {
	for _, r := range rules {
		if r.Strategy.kind == StrategyScenario {
			return ReadingStrategy{}, &ConfigError{Subject: "reading strategy", Err: ErrInvalidStrategy}
		}
	}
	cp := make([]ScenarioRule, len(rules))
	copy(cp, rules)
	return ReadingStrategy{kind: StrategyScenario, rules: cp}, nil
}

func (s ReadingStrategy) Kind() StrategyKind { return s.kind }

// resolve returns the terminal strategy to use for a file of the given size.
// Non-Scenario strategies resolve to themselves. Scenario picks the first
// matching range in declared order, falling back to Buffer if none match.
func (s ReadingStrategy) resolve(size int64) ReadingStrategy {
	if s.kind != StrategyScenario {
		return s
	}
	for _, rule := range s.rules {
		if rule.Range.contains(size) {
			return rule.Strategy
		}
	}
	return Buffer()
}
