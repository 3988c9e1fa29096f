package config

import "time"

// FinanceConfig holds the defaults used for assistant-created finance records.
type FinanceConfig struct {
	DefaultAccountName string `yaml:"default_account_name"`
	IncomeCategory     string `yaml:"income_category"`
	ExpenseCategory    string `yaml:"expense_category"`
	Currency           string `yaml:"currency"`
}

// FalconConfig controls how commands are executed.
type FalconConfig struct {
	// Use the store's atomic increment for balances when it has one.
	// false reproduces the plain read-modify-write.
	AtomicBalance bool `yaml:"atomic_balance"`

	// Serialize finance commands per user inside one process.
	SerializeFinance bool `yaml:"serialize_finance"`

	// Upper bound for a points award call.
	AwardTimeout string `yaml:"award_timeout"`
}

// GetAwardTimeout returns the award timeout as a duration. Zero means none.
func (f FalconConfig) GetAwardTimeout() time.Duration {
	if f.AwardTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(f.AwardTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}
