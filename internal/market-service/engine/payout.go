package engine

import "math/big"

// Payout calcula o pagamento pari-mutuel de um participante.
// Invalid devolve tudo que foi apostado, independente do lado.
// Yes/No pagam a fração proporcional do pool TOTAL (ambos os lados),
// com divisão inteira truncada; perdedores e pools vazios pagam zero.
func Payout(outcome Outcome, yesPool, noPool, stakeYes, stakeNo int64) int64 {
	switch outcome {
	case OutcomeInvalid:
		return stakeYes + stakeNo
	case OutcomeYes:
		if stakeYes > 0 && yesPool > 0 {
			return proRata(yesPool+noPool, stakeYes, yesPool)
		}
	case OutcomeNo:
		if stakeNo > 0 && noPool > 0 {
			return proRata(yesPool+noPool, stakeNo, noPool)
		}
	}
	return 0
}

// proRata retorna floor(total * stake / pool).
// O produto intermediário pode estourar int64, então a conta é feita em big.Int.
func proRata(total, stake, pool int64) int64 {
	p := new(big.Int).Mul(big.NewInt(total), big.NewInt(stake))
	p.Quo(p, big.NewInt(pool))
	return p.Int64()
}

// OddsBps retorna a fração do pool no lado YES em basis points [0, 10000].
// Pool vazio é definido como 5000 (50.00%), sem divisão por zero.
func OddsBps(yesPool, noPool int64) uint32 {
	total := yesPool + noPool
	if total == 0 {
		return 5000
	}
	bps := new(big.Int).Mul(big.NewInt(yesPool), big.NewInt(10000))
	bps.Quo(bps, big.NewInt(total))
	return uint32(bps.Int64())
}
