package model

// Founder is a founding stakeholder.
// InitialEquity is a percentage (0..100) of the founder-and-pool slice.
type Founder struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	InitialEquity float64 `json:"initial_equity" yaml:"initial_equity"`
	Email         string  `json:"email,omitempty" yaml:"email,omitempty"`
	Color         string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Label is the name used in messages and ownership rows.
func (f Founder) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// ESOPConfig describes the option pool at scenario creation.
// Units:
// - PoolSize: percent of the initial capitalization
// - IsPreMoney: informational; each round's adjustment carries its own timing
type ESOPConfig struct {
	PoolSize   float64 `json:"pool_size" yaml:"pool_size"`
	IsPreMoney bool    `json:"is_pre_money" yaml:"is_pre_money"`
}

// PricedTerms are the terms of a priced equity round.
type PricedTerms struct {
	PreMoney float64 `json:"pre_money" yaml:"pre_money"`
}

// SAFETerms are the terms of a convertible instrument.
// Discount is a percentage (0..99). MFN is carried but does not affect conversion.
type SAFETerms struct {
	ValuationCap float64 `json:"valuation_cap" yaml:"valuation_cap"`
	Discount     float64 `json:"discount,omitempty" yaml:"discount,omitempty"`
	MFN          bool    `json:"mfn,omitempty" yaml:"mfn,omitempty"`
}

// ESOPAdjustment expands the option pool while processing the round it is attached to.
type ESOPAdjustment struct {
	Expand      bool    `json:"expand" yaml:"expand"`
	NewPoolSize float64 `json:"new_pool_size" yaml:"new_pool_size"`
	IsPreMoney  bool    `json:"is_pre_money" yaml:"is_pre_money"`
}

// SecondaryTransaction moves existing founder shares to the round's investor.
// PricePerShare is recorded only; it does not enter share accounting.
type SecondaryTransaction struct {
	SellerID      string              `json:"seller_id" yaml:"seller_id"`
	AmountType    SecondaryAmountType `json:"amount_type" yaml:"amount_type"`
	Amount        float64             `json:"amount" yaml:"amount"`
	PricePerShare float64             `json:"price_per_share,omitempty" yaml:"price_per_share,omitempty"`
}

type SecondaryConfig struct {
	Enabled      bool                   `json:"enabled" yaml:"enabled"`
	Timing       SecondaryTiming        `json:"timing,omitempty" yaml:"timing,omitempty"`
	Transactions []SecondaryTransaction `json:"transactions,omitempty" yaml:"transactions,omitempty"`
}

// Round is a financing event. Type selects which of Priced / SAFE applies;
// Order (not slice position) defines the processing sequence.
type Round struct {
	ID     string    `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Type   RoundType `json:"type" yaml:"type"`
	Amount float64   `json:"amount" yaml:"amount"`
	Order  int       `json:"order" yaml:"order"`

	Priced *PricedTerms `json:"priced,omitempty" yaml:"priced,omitempty"`
	SAFE   *SAFETerms   `json:"safe,omitempty" yaml:"safe,omitempty"`

	ESOPAdjustment *ESOPAdjustment  `json:"esop_adjustment,omitempty" yaml:"esop_adjustment,omitempty"`
	Secondary      *SecondaryConfig `json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

func (r Round) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// PreMoney returns the priced pre-money valuation, or 0 when absent.
func (r Round) PreMoney() float64 {
	if r.Priced == nil {
		return 0
	}
	return r.Priced.PreMoney
}

// PostMoney is PreMoney + Amount for priced rounds.
func (r Round) PostMoney() float64 {
	return r.PreMoney() + r.Amount
}

// ValuationCap returns the SAFE cap, or 0 when absent.
func (r Round) ValuationCap() float64 {
	if r.SAFE == nil {
		return 0
	}
	return r.SAFE.ValuationCap
}

// Scenario is the aggregate root handed to the engine. The engine never mutates it.
type Scenario struct {
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Founders  []Founder  `json:"founders" yaml:"founders"`
	ESOP      ESOPConfig `json:"esop" yaml:"esop"`
	Rounds    []Round    `json:"rounds" yaml:"rounds"`
	ExitValue float64    `json:"exit_value" yaml:"exit_value"`
}

// TotalFounderEquity sums InitialEquity across founders.
func (s Scenario) TotalFounderEquity() float64 {
	total := 0.0
	for _, f := range s.Founders {
		total += f.InitialEquity
	}
	return total
}

// Clone returns a deep copy; the result shares no slices or pointers with s.
func (s Scenario) Clone() Scenario {
	out := s
	if s.Founders != nil {
		out.Founders = append([]Founder(nil), s.Founders...)
	}
	if s.Rounds != nil {
		out.Rounds = make([]Round, len(s.Rounds))
		for i, r := range s.Rounds {
			out.Rounds[i] = r.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of r.
func (r Round) Clone() Round {
	out := r
	if r.Priced != nil {
		p := *r.Priced
		out.Priced = &p
	}
	if r.SAFE != nil {
		safe := *r.SAFE
		out.SAFE = &safe
	}
	if r.ESOPAdjustment != nil {
		adj := *r.ESOPAdjustment
		out.ESOPAdjustment = &adj
	}
	if r.Secondary != nil {
		sec := *r.Secondary
		if sec.Transactions != nil {
			sec.Transactions = append([]SecondaryTransaction(nil), sec.Transactions...)
		}
		out.Secondary = &sec
	}
	return out
}
