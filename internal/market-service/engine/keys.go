package engine

import "fmt"

// keyKind discrimina as variantes de chave de armazenamento.
type keyKind uint8

const (
	kindAdmin keyKind = iota
	kindResolver
	kindAsset
	kindNextMarketID
	kindMarket
	kindStake
)

// DataKey é a chave estruturada usada pelo Store.
// Variantes: campos singleton de configuração, contador de ids,
// Market(id) e Stake(id, participante).
type DataKey struct {
	kind     keyKind
	marketID uint32
	user     string
}

func KeyAdmin() DataKey        { return DataKey{kind: kindAdmin} }
func KeyResolver() DataKey     { return DataKey{kind: kindResolver} }
func KeyAsset() DataKey        { return DataKey{kind: kindAsset} }
func KeyNextMarketID() DataKey { return DataKey{kind: kindNextMarketID} }

func KeyMarket(id uint32) DataKey { return DataKey{kind: kindMarket, marketID: id} }

func KeyStake(id uint32, user string) DataKey {
	return DataKey{kind: kindStake, marketID: id, user: user}
}

// String codifica a chave num formato estável, usado como chave Redis
// e como coluna k no Postgres.
func (k DataKey) String() string {
	switch k.kind {
	case kindAdmin:
		return "config:admin"
	case kindResolver:
		return "config:resolver"
	case kindAsset:
		return "config:asset"
	case kindNextMarketID:
		return "counter:next_market_id"
	case kindMarket:
		return fmt.Sprintf("market:%d", k.marketID)
	case kindStake:
		return fmt.Sprintf("stake:%d:%s", k.marketID, k.user)
	}
	return "unknown"
}
