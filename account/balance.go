package account

// FixedBalanceSource serves balances from a static map, in the smallest
// currency unit. Real balance computation belongs to the transaction engine;
// the CLI and tests use this stand-in.
type FixedBalanceSource map[string]int64

// Balance implements wallet.BalanceSource. Unknown wallets report zero.
func (s FixedBalanceSource) Balance(walletID string) (int64, error) {
	return s[walletID], nil
}
