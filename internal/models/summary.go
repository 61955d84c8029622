package models

// Summary is a per-type tally of extracted records.
type Summary struct {
	Total  int                     `json:"total" yaml:"total"`
	ByType map[TransactionType]int `json:"byType" yaml:"by_type"`
}

// NewSummary returns an empty Summary with a zero count for every known type.
func NewSummary() Summary {
	s := Summary{ByType: make(map[TransactionType]int, len(transactionTypes))}
	for _, t := range transactionTypes {
		s.ByType[t] = 0
	}
	return s
}

// Add counts one record of type t.
func (s *Summary) Add(t TransactionType) {
	if s.ByType == nil {
		s.ByType = make(map[TransactionType]int)
	}
	s.ByType[t]++
	s.Total++
}

// Merge folds other into s.
func (s *Summary) Merge(other Summary) {
	if s.ByType == nil {
		s.ByType = make(map[TransactionType]int)
	}
	for t, n := range other.ByType {
		s.ByType[t] += n
	}
	s.Total += other.Total
}
