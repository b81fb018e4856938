package ledger

// SeedBalance overwrites an account balance on the in-memory backend,
// provisioning the account if needed. Test helper only.
func (m *Memory) SeedBalance(id string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.accounts[id]
	acc.ID = id
	acc.Balance = amount
	if acc.Currency == "" {
		acc.Currency = CurrencyEUR
	}
	m.accounts[id] = acc
}
