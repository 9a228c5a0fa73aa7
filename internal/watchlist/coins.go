package watchlist

import "strings"

// Coin maps a user-facing ticker to the id the price source understands.
type Coin struct {
	Symbol  string
	AssetID string
}

var knownCoins = []Coin{
	{"BTC", "bitcoin"},
	{"ETH", "ethereum"},
	{"USDT", "tether"},
	{"BNB", "binancecoin"},
	{"SOL", "solana"},
	{"USDC", "usd-coin"},
	{"XRP", "ripple"},
	{"TON", "the-open-network"},
	{"DOGE", "dogecoin"},
	{"ADA", "cardano"},
	{"TRX", "tron"},
	{"AVAX", "avalanche-2"},
	{"SHIB", "shiba-inu"},
	{"LINK", "chainlink"},
	{"DOT", "polkadot"},
	{"BCH", "bitcoin-cash"},
	{"NEAR", "near"},
	{"LTC", "litecoin"},
	{"MATIC", "matic-network"},
	{"UNI", "uniswap"},
	{"ICP", "internet-computer"},
	{"PEPE", "pepe"},
	{"ETC", "ethereum-classic"},
	{"XMR", "monero"},
	{"ATOM", "cosmos"},
	{"HBAR", "hedera-hashgraph"},
	{"FIL", "filecoin"},
	{"INJ", "injective-protocol"},
	{"ARB", "arbitrum"},
	{"OP", "optimism"},
	{"VET", "vechain"},
	{"MKR", "maker"},
	{"GRT", "the-graph"},
	{"AAVE", "aave"},
	{"TAO", "bittensor"},
	{"FET", "fetch-ai"},
	{"SUI", "sui"},
	{"CAKE", "pancakeswap"},
	{"ALGO", "algorand"},
	{"XTZ", "tezos"},
	{"GALA", "gala"},
	{"SAND", "the-sandbox"},
	{"MANA", "decentraland"},
	{"CRV", "curve-dao-token"},
	{"ZEC", "zcash"},
	{"DASH", "dash"},
	{"ENJ", "enjincoin"},
	{"CHZ", "chiliz"},
	{"BAT", "basic-attention-token"},
	{"KAVA", "kava"},
}

// FindEntry resolves a user-supplied symbol or asset id against a
// subscriber's own entries. Migrated records can track assets outside the
// known-coin table; they must stay editable and removable all the same.
func FindEntry(entries []TrackedAsset, query string) (TrackedAsset, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return TrackedAsset{}, false
	}
	for _, e := range entries {
		if strings.EqualFold(e.Symbol, q) || strings.EqualFold(e.AssetID, q) {
			return e, true
		}
	}
	return TrackedAsset{}, false
}

// LookupCoin resolves a ticker symbol or asset id to a known coin.
func LookupCoin(query string) (Coin, bool) {
	q := strings.TrimSpace(query)
	for _, c := range knownCoins {
		if strings.EqualFold(c.Symbol, q) || strings.EqualFold(c.AssetID, q) {
			return c, true
		}
	}
	return Coin{}, false
}

// SearchCoins returns up to limit coins whose symbol or asset id contains
// the query, for suggestion lists.
func SearchCoins(query string, limit int) []Coin {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Coin
	for _, c := range knownCoins {
		if strings.Contains(strings.ToLower(c.Symbol), q) || strings.Contains(c.AssetID, q) {
			out = append(out, c)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
