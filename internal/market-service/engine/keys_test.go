package engine

import "testing"

func TestDataKeyEncoding(t *testing.T) {
	cases := []struct {
		key  DataKey
		want string
	}{
		{KeyAdmin(), "config:admin"},
		{KeyResolver(), "config:resolver"},
		{KeyAsset(), "config:asset"},
		{KeyNextMarketID(), "counter:next_market_id"},
		{KeyMarket(42), "market:42"},
		{KeyStake(42, "alice"), "stake:42:alice"},
	}
	for _, c := range cases {
		if got := c.key.String(); got != c.want {
			t.Fatalf("key=%v got=%q want=%q", c.key, got, c.want)
		}
	}
}

func TestDataKeyEncodingIsUniquePerEntity(t *testing.T) {
	seen := map[string]bool{}
	keys := []DataKey{
		KeyAdmin(), KeyResolver(), KeyAsset(), KeyNextMarketID(),
		KeyMarket(1), KeyMarket(2),
		KeyStake(1, "alice"), KeyStake(1, "bob"), KeyStake(2, "alice"),
	}
	for _, k := range keys {
		s := k.String()
		if seen[s] {
			t.Fatalf("duplicate encoding %q", s)
		}
		seen[s] = true
	}
}
