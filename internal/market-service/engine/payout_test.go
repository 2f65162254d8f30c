package engine

import "testing"

func TestPayoutInvalidRefundsBothSides(t *testing.T) {
	got := Payout(OutcomeInvalid, 5000, 3000, 1200, 800)
	if got != 2000 {
		t.Fatalf("payout=%d want=2000", got)
	}
}

func TestPayoutSoleWinnerTakesWholePool(t *testing.T) {
	// único apostador YES leva o pool inteiro (igual à própria stake sem lado oposto)
	got := Payout(OutcomeYes, 1000, 0, 1000, 0)
	if got != 1000 {
		t.Fatalf("payout=%d want=1000", got)
	}
}

func TestPayoutWinnerTakesProportionalShareOfTotalPool(t *testing.T) {
	// pool total 4000, vencedor detém 3000 dos 3000 do lado NO
	got := Payout(OutcomeNo, 1000, 3000, 0, 3000)
	if got != 4000 {
		t.Fatalf("payout=%d want=4000", got)
	}
}

func TestPayoutLoserGetsZero(t *testing.T) {
	got := Payout(OutcomeNo, 1000, 3000, 1000, 0)
	if got != 0 {
		t.Fatalf("payout=%d want=0", got)
	}
}

func TestPayoutFloorDivision(t *testing.T) {
	// 3 vencedores iguais num pool de 1000: cada um recebe floor(1000/3)=333
	got := Payout(OutcomeYes, 999, 1, 333, 0)
	if got != 333 {
		t.Fatalf("payout=%d want=333", got)
	}
}

func TestPayoutEmptyWinningPool(t *testing.T) {
	// ninguém apostou no lado vencedor: nada a pagar
	got := Payout(OutcomeYes, 0, 5000, 0, 5000)
	if got != 0 {
		t.Fatalf("payout=%d want=0", got)
	}
}

func TestPayoutLargePoolsDoNotOverflow(t *testing.T) {
	// produto intermediário total*stake estoura int64; big.Int mantém a conta exata
	total := int64(4_000_000_000_000_000_000) // 4e18
	yes := int64(3_000_000_000_000_000_000)   // 3e18
	no := total - yes
	got := Payout(OutcomeYes, yes, no, yes, 0)
	if got != total {
		t.Fatalf("payout=%d want=%d", got, total)
	}
}

func TestPayoutsNeverExceedPool(t *testing.T) {
	yesPool, noPool := int64(7777), int64(2223)
	stakes := []int64{2500, 2500, 2777} // = yesPool
	var sum int64
	for _, s := range stakes {
		sum += Payout(OutcomeYes, yesPool, noPool, s, 0)
	}
	if sum > yesPool+noPool {
		t.Fatalf("sum of payouts %d exceeds pool %d", sum, yesPool+noPool)
	}
	// sobra de arredondamento no máximo 1 unidade por claimant
	if sum < yesPool+noPool-int64(len(stakes)) {
		t.Fatalf("rounding leak too large: sum=%d pool=%d", sum, yesPool+noPool)
	}
}

func TestOddsBpsEmptyPoolIsEven(t *testing.T) {
	if got := OddsBps(0, 0); got != 5000 {
		t.Fatalf("odds=%d want=5000", got)
	}
}

func TestOddsBpsProportional(t *testing.T) {
	if got := OddsBps(1000, 3000); got != 2500 {
		t.Fatalf("odds=%d want=2500", got)
	}
	if got := OddsBps(3000, 1000); got != 7500 {
		t.Fatalf("odds=%d want=7500", got)
	}
}

func TestOddsBpsBounds(t *testing.T) {
	if got := OddsBps(1, 0); got != 10000 {
		t.Fatalf("odds=%d want=10000", got)
	}
	if got := OddsBps(0, 1); got != 0 {
		t.Fatalf("odds=%d want=0", got)
	}
}
