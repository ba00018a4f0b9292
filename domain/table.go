package domain

// Table is a mongo collection name
type Table string

const (
	TableAmountTiers     Table = "amount_tiers"
	TableLockTiers       Table = "lock_tiers"
	TableStakePositions  Table = "stake_positions"
	TablePendingRewards  Table = "pending_rewards"
	TableTreasuryStates  Table = "treasury_states"
	TableReferralConfigs Table = "referral_configs"
	TableReferralLinks   Table = "referral_links"
	TableReferralStats   Table = "referral_stats"
	TableLedgerEvents    Table = "ledger_events"
	TableCounters        Table = "counters"
)
